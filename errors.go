package uvplane

import "errors"

var (
	ErrNilController   = errors.New("nil controller")
	ErrNilBody         = errors.New("nil handle body")
	ErrUnknownDragKind = errors.New("unknown drag kind")
	ErrNotAffine       = errors.New("matrix is not affine")
	ErrSingularMatrix  = errors.New("matrix is singular")
	ErrUnknownLayout   = errors.New("unknown layout policy")
	ErrEmptyMesh       = errors.New("nothing selected to apply projection to")
	ErrInvalidOptions  = errors.New("invalid options")
)
