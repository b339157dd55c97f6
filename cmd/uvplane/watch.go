package main

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/smasonuk/uvplane"
)

// watchOptions reloads the options file whenever it is written and hands
// each valid result to out, dropping it if the previous one was not taken.
// The directory is watched so editors that replace the file are seen too.
func watchOptions(path string, out chan<- uvplane.Options) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				opts, err := uvplane.LoadOptionsFile(abs)
				if err != nil {
					log.Println("error reloading options:", err)
					continue
				}
				select {
				case out <- opts:
				default:
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("error:", err)
			}
		}
	}()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}
	return watcher, nil
}
