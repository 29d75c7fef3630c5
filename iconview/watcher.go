package iconview

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"github.com/fsnotify/fsnotify"
)

// dirWatcher reports files appearing in and leaving a local directory.
// Callbacks run on the fyne goroutine.
type dirWatcher struct {
	w    *fsnotify.Watcher
	done chan struct{}

	onAdded   func(fyne.URI)
	onRemoved func(fyne.URI)
}

func watchDir(dir fyne.URI, onAdded, onRemoved func(fyne.URI)) (*dirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir.Path()); err != nil {
		w.Close()
		return nil, err
	}

	d := &dirWatcher{w: w, done: make(chan struct{}), onAdded: onAdded, onRemoved: onRemoved}
	go d.run()
	return d, nil
}

func (d *dirWatcher) run() {
	defer close(d.done)
	for {
		select {
		case ev, ok := <-d.w.Events:
			if !ok {
				return
			}
			fyne.Do(func() { d.handle(ev) })
		case err, ok := <-d.w.Errors:
			if !ok {
				return
			}
			fyne.LogError("directory watch failed", err)
		}
	}
}

func (d *dirWatcher) handle(ev fsnotify.Event) {
	u := storage.NewFileURI(ev.Name)
	switch {
	case ev.Has(fsnotify.Create):
		if d.onAdded != nil {
			d.onAdded(u)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		if d.onRemoved != nil {
			d.onRemoved(u)
		}
	}
}

func (d *dirWatcher) Close() error {
	err := d.w.Close()
	<-d.done
	return err
}
