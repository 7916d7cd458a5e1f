package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	gitwipErrors "github.com/bashhack/gitwip/internal/errors"
	"github.com/bashhack/gitwip/internal/logger"
)

// relevantOps are the fsnotify operations that can change what git sees.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Event is a change to a single path below the watched root.
type Event struct {
	// Path is relative to the root and uses forward slashes.
	Path string
	Op   fsnotify.Op
}

// Watcher reports changes anywhere below a directory tree. Paths with a
// segment starting with "." (such as .git) are never watched or reported.
type Watcher struct {
	root   string
	fs     *fsnotify.Watcher
	logger logger.Logger
	events chan Event
	errors chan error
}

// New creates a Watcher on root and registers every non-hidden directory
// below it.
func New(root string, log logger.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, gitwipErrors.Wrapf(err, "resolve watch root %s", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, gitwipErrors.Wrap(err, "create file watcher")
	}

	w := &Watcher{
		root:   abs,
		fs:     fsw,
		logger: log,
		events: make(chan Event),
		errors: make(chan error, 16),
	}

	if err := w.addTree(abs); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Events delivers filtered change events. It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors delivers errors reported by the underlying watcher. Errors are
// dropped when nobody keeps up with the channel.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run pumps events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !ev.Has(relevantOps) {
				continue
			}

			rel, ok := w.relative(ev.Name)
			if !ok || Ignored(rel) {
				continue
			}

			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warning("Failed to watch new directory %s: %v", rel, err)
					}
				}
			}

			select {
			case w.events <- Event{Path: rel, Op: ev.Op}:
			case <-ctx.Done():
				return nil
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error: %v", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

// Close stops the underlying watcher. Run returns once its channels drain.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Ignored reports whether a root-relative path has a hidden segment.
func Ignored(rel string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(rel), "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

func (w *Watcher) relative(name string) (string, bool) {
	rel, err := filepath.Rel(w.root, name)
	if err != nil || rel == "." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addTree watches dir and every non-hidden directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// subdirectories can vanish during the walk
			if os.IsNotExist(err) && p != dir {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != w.root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fs.Add(p); err != nil {
			return gitwipErrors.Wrapf(err, "watch %s", p)
		}
		return nil
	})
}
