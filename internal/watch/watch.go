// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package watch calls a function whenever a directory tree changes.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// A Watcher reports changes below a root directory. Bursts of events
// closer together than Debounce are reported once.
type Watcher struct {
	Root     string
	Debounce time.Duration
	Logger   *slog.Logger

	// Ignore, if set, is consulted for every changed path. Changes
	// for which it returns true do not trigger a call. It is used to
	// skip the files written by the callback itself.
	Ignore func(path string) bool
}

// Run calls onChange after every debounced burst of changes below
// w.Root, until ctx is done. Calls are serialized. Directories created
// after Run starts are watched as well.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	log := w.Logger
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()
	if err := addTree(fw, w.Root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Root, err)
	}
	log.Info("watching for changes", "root", w.Root)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.Ignore != nil && w.Ignore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				// A new benchmark, configuration or run directory.
				if err := addTree(fw, event.Name); err != nil {
					log.Debug("cannot watch new path", "path", event.Name, "err", err)
				}
			}
			log.Debug("change", "path", event.Name, "op", event.Op.String())
			// Debounce: reset timer on each event
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.Debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "err", err)
		}
	}
}

// addTree watches root and every directory below it. A root that is
// not a directory is ignored.
func addTree(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fw.Add(path)
	})
}
