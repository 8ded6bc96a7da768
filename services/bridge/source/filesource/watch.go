// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package filesource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyWatching is returned by a second concurrent Watch.
var ErrAlreadyWatching = errors.New("already watching")

// Watch caches the decoded snapshot and drops the cache whenever the
// file is written, created, renamed or removed.
//
// Description:
//
//	The file's directory is watched rather than the file itself so that
//	editors which replace the file by rename keep being observed. Watching
//	stops when ctx is done or stop is called; the cache is cleared and
//	Snapshot goes back to reading the file on every call.
//
// Outputs:
//
//	stop - Stops watching. Safe to call more than once.
//	error - ErrAlreadyWatching or a watcher setup failure.
func (s *Source) Watch(ctx context.Context) (stop func(), err error) {
	target, err := filepath.Abs(s.path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", s.path, err)
	}

	s.mu.Lock()
	if s.watching {
		s.mu.Unlock()
		return nil, ErrAlreadyWatching
	}
	s.watching = true
	s.mu.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.endWatch()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		watcher.Close()
		s.endWatch()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() {
			close(done)
			watcher.Close()
			s.endWatch()
		})
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				stop()
				return
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target || event.Op == fsnotify.Chmod {
					continue
				}
				s.invalidate()
				s.logger.Debug("snapshot file changed",
					slog.String("path", s.path),
					slog.String("op", event.Op.String()),
				)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Events may have been lost; fall back to a fresh read.
				s.invalidate()
				s.logger.Warn("snapshot watcher error", slog.String("error", err.Error()))
			}
		}
	}()

	s.logger.Info("watching snapshot file", slog.String("path", target))
	return stop, nil
}

func (s *Source) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}

func (s *Source) endWatch() {
	s.mu.Lock()
	s.watching = false
	s.cached = nil
	s.gen++
	s.mu.Unlock()
}
