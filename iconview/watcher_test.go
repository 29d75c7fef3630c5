package iconview

import (
	"testing"

	"fyne.io/fyne/v2"
	"github.com/fsnotify/fsnotify"
)

func TestDirWatcher_Handle(t *testing.T) {
	var added, removed []string
	d := &dirWatcher{
		onAdded:   func(u fyne.URI) { added = append(added, u.Path()) },
		onRemoved: func(u fyne.URI) { removed = append(removed, u.Path()) },
	}

	d.handle(fsnotify.Event{Name: "/tmp/dir/new.txt", Op: fsnotify.Create})
	d.handle(fsnotify.Event{Name: "/tmp/dir/old.txt", Op: fsnotify.Remove})
	d.handle(fsnotify.Event{Name: "/tmp/dir/moved.txt", Op: fsnotify.Rename})
	d.handle(fsnotify.Event{Name: "/tmp/dir/new.txt", Op: fsnotify.Write})

	if len(added) != 1 || added[0] != "/tmp/dir/new.txt" {
		t.Errorf("Expected new.txt to be added, got %v", added)
	}
	if len(removed) != 2 || removed[0] != "/tmp/dir/old.txt" || removed[1] != "/tmp/dir/moved.txt" {
		t.Errorf("Expected old.txt and moved.txt to be removed, got %v", removed)
	}
}
