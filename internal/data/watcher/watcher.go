package watcher

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/penwyp/go-wpt-filmstrip/internal/util"
)

// Event reports a change to one watched file
type Event struct {
	Path      string
	Operation string
}

// FileWatcher watches a fixed set of files. Editors often replace files
// instead of writing in place, so the parent directories are watched and
// events are filtered down to the requested paths.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]struct{}
	events  chan Event
	done    chan struct{}
	once    sync.Once
}

func NewFileWatcher(paths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &FileWatcher{
		watcher: watcher,
		files:   make(map[string]struct{}),
		events:  make(chan Event, 100),
		done:    make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		fw.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	go fw.processEvents()

	return fw, nil
}

func (fw *FileWatcher) processEvents() {
	defer close(fw.events)
	for {
		select {
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if _, watched := fw.files[filepath.Clean(event.Name)]; !watched {
				continue
			}
			select {
			case fw.events <- Event{Path: event.Name, Operation: event.Op.String()}:
			case <-fw.done:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("File watcher error: " + err.Error())

		case <-fw.done:
			return
		}
	}
}

// Events is closed once the watcher stops
func (fw *FileWatcher) Events() <-chan Event {
	return fw.events
}

func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}
