package tickets

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kendallhq/managerpro/internal/logging"
)

// Watcher keeps the manager's in-memory collection in sync with external
// writers (another process sharing the same database file). It re-reads the
// full collection on a fixed interval and on change notifications, replacing
// the in-memory copy wholesale. There is no merge: the most recent full
// write wins.
type Watcher struct {
	manager  *Manager
	log      logging.Logger
	interval time.Duration

	changes chan struct{}
	fsw     *fsnotify.Watcher
	dbBase  string
}

func NewWatcher(manager *Manager, log logging.Logger, interval time.Duration) *Watcher {
	return &Watcher{
		manager:  manager,
		log:      log,
		interval: interval,
		changes:  make(chan struct{}, 1),
	}
}

// Notify signals an external change explicitly. The signal is coalesced
// with any refresh already pending.
func (w *Watcher) Notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// WatchFile registers the database file for filesystem change events.
// Watching is best effort: when the watcher cannot be created the poll
// interval alone still picks up external writes.
func (w *Watcher) WatchFile(ctx context.Context, path string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// Watch the containing directory: SQLite also touches -wal and
	// -journal siblings, and the file itself may be replaced.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return err
	}

	w.fsw = fsw
	w.dbBase = filepath.Base(path)
	return nil
}

// Run polls storage on the configured interval and reacts to change
// notifications until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	if w.fsw != nil {
		defer w.fsw.Close()
	}

	var fsEvents chan fsnotify.Event
	var fsErrors chan error
	if w.fsw != nil {
		fsEvents = w.fsw.Events
		fsErrors = w.fsw.Errors
	}

	for {
		select {
		case <-ticker.C:
			w.manager.Refresh(ctx)

		case <-w.changes:
			w.manager.Refresh(ctx)

		case event, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if !strings.HasPrefix(filepath.Base(event.Name), w.dbBase) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.manager.Refresh(ctx)
			}

		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			w.log.Warn(ctx, "file watcher error", "error", err)

		case <-ctx.Done():
			return
		}
	}
}
