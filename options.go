package uvplane

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LayoutPolicy picks how the first control matrix is fitted to the mesh.
type LayoutPolicy string

const (
	PolicyBounds LayoutPolicy = "bounds"
	PolicyFace   LayoutPolicy = "face"
	PolicyGrid   LayoutPolicy = "grid"
)

// Options are the user settings of the tool.
type Options struct {
	// only write uvs of selected faces
	SelectedFacesOnly bool `toml:"selected_faces_only" yaml:"selected_faces_only"`

	// step translations by whole multiples of ClampScalar along u, v and the
	// projection axis
	ClampToBasis bool    `toml:"clamp_to_basis" yaml:"clamp_to_basis"`
	ClampScalar  float64 `toml:"clamp_scalar" yaml:"clamp_scalar"`

	// rotation snap increment in degrees
	SnapAngle float64 `toml:"snap_angle" yaml:"snap_angle"`

	HandleScale    float64      `toml:"handle_scale" yaml:"handle_scale"`
	InitLayout     LayoutPolicy `toml:"init_layout" yaml:"init_layout"`
	RelocateOrigin bool         `toml:"relocate_origin" yaml:"relocate_origin"`
	GridScale      float64      `toml:"grid_scale" yaml:"grid_scale"`
}

func DefaultOptions() Options {
	return Options{
		SelectedFacesOnly: true,
		ClampToBasis:      false,
		ClampScalar:       1,
		SnapAngle:         15,
		HandleScale:       1,
		InitLayout:        PolicyBounds,
		RelocateOrigin:    true,
		GridScale:         1,
	}
}

func (o Options) Validate() error {
	switch {
	case o.ClampScalar <= 0:
		return fmt.Errorf("%w: clamp_scalar must be positive, got %g", ErrInvalidOptions, o.ClampScalar)
	case o.SnapAngle <= 0 || o.SnapAngle > 360:
		return fmt.Errorf("%w: snap_angle must be in (0, 360], got %g", ErrInvalidOptions, o.SnapAngle)
	case o.HandleScale <= 0:
		return fmt.Errorf("%w: handle_scale must be positive, got %g", ErrInvalidOptions, o.HandleScale)
	case o.GridScale <= 0:
		return fmt.Errorf("%w: grid_scale must be positive, got %g", ErrInvalidOptions, o.GridScale)
	}
	switch o.InitLayout {
	case PolicyBounds, PolicyFace, PolicyGrid:
	default:
		return fmt.Errorf("%w: %w %q", ErrInvalidOptions, ErrUnknownLayout, o.InitLayout)
	}
	return nil
}

// LoadOptions reads options in the given format ("toml", "yaml" or "yml").
// Keys missing from the input keep their default values.
func LoadOptions(r io.Reader, format string) (Options, error) {
	o := DefaultOptions()

	switch strings.ToLower(format) {
	case "toml":
		if err := toml.NewDecoder(r).Decode(&o); err != nil {
			return Options{}, fmt.Errorf("error parsing TOML options: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&o); err != nil && !errors.Is(err, io.EOF) {
			return Options{}, fmt.Errorf("error parsing YAML options: %w", err)
		}
	default:
		return Options{}, fmt.Errorf("unsupported options format %q", format)
	}

	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

// LoadOptionsFile reads an options file, taking the format from its
// extension.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("could not open options file %s: %w", path, err)
	}
	defer f.Close()

	o, err := LoadOptions(f, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}
