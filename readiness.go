package dinit

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"

	"github.com/axondata/go-dinit/pkg/logging"
)

// waitForFile blocks until path exists, the context is cancelled, or the
// timeout elapses. It is the engine's readiness probe for services declaring
// a ready-file.
//
// The parent directory is watched with fsnotify; the watch goroutine's
// lifecycle is managed with a stopper context so teardown is bounded.
func waitForFile(ctx context.Context, path string, timeout time.Duration) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirMode); err != nil {
		return fmt.Errorf("creating ready-file directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	found := make(chan struct{}, 1)
	watchErr := make(chan error, 1)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
	})
	sctx.Go(func(sctx *stopper.Context) error {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name == path && event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					select {
					case found <- struct{}{}:
					default:
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				select {
				case watchErr <- err:
				default:
				}
			case <-sctx.Stopping():
				return nil
			}
		}
	})
	defer func() {
		sctx.Stop(watchStopGrace)
		_ = sctx.Wait()
	}()

	// The file may have appeared between the first stat and the watch.
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	logging.Debug("Engine", "Waiting up to %s for ready-file %s", timeout, path)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-found:
		return nil
	case err := <-watchErr:
		return fmt.Errorf("watching %s: %w", dir, err)
	case <-timer.C:
		return fmt.Errorf("%w: %s did not appear within %s", ErrReadyTimeout, path, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
