package config

import (
	"context"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch re-reads the config file whenever it changes and delivers the fresh
// Config through onChange. Editors commonly replace files via rename, so the
// path is re-added after remove/rename events. Runs until ctx is cancelled.
//
// A file that fails to load keeps the previous configuration; the error is
// logged and onChange is not called.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				cfg, err := Load(path)
				if err != nil {
					logger.Warn("config reload failed, keeping previous config",
						zap.String("path", path), zap.Error(err))
					continue
				}
				logger.Info("config reloaded", zap.String("path", path))
				onChange(cfg)
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				// Atomic saves replace the watched inode.
				if err := watcher.Add(path); err != nil {
					logger.Warn("config file went away", zap.String("path", path), zap.Error(err))
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
