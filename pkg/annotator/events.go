package annotator

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/a9s/pkg/annotation"
)

// EventType names a lifecycle event.
type EventType string

const (
	EventCreate           EventType = "createAnnotation"
	EventUpdate           EventType = "updateAnnotation"
	EventDelete           EventType = "deleteAnnotation"
	EventSelectionChanged EventType = "selectionChanged"
	EventClick            EventType = "clickAnnotation"
)

// Event is one lifecycle event.
type Event struct {
	Type EventType

	// Annotation is the subject. For selectionChanged it is the new
	// selection, or the zero value when the selection was cleared.
	Annotation annotation.Annotation

	// Previous is the state before an update.
	Previous *annotation.Annotation
}

// Observer receives lifecycle events.
type Observer func(Event)

type observers struct {
	next int
	list []observerEntry
}

type observerEntry struct {
	id int
	fn Observer
}

func (o *observers) add(fn Observer) func() {
	o.next++
	id := o.next
	o.list = append(o.list, observerEntry{id: id, fn: fn})
	return func() {
		list := make([]observerEntry, 0, len(o.list))
		for _, e := range o.list {
			if e.id != id {
				list = append(list, e)
			}
		}
		o.list = list
	}
}

func (o *observers) emit(ev Event) {
	for _, e := range o.list {
		e.fn(ev)
	}
}

// Autosave returns an observer that writes created and updated annotations
// to store and deletes removed ones. Store failures are logged, not
// returned, since observers run on the event loop.
func Autosave(ctx context.Context, store annotation.Store, logger *log.Logger) Observer {
	if logger == nil {
		logger = log.Default()
	}
	return func(ev Event) {
		var err error
		switch ev.Type {
		case EventCreate, EventUpdate:
			err = store.Put(ctx, ev.Annotation)
		case EventDelete:
			err = store.Delete(ctx, ev.Annotation.ID)
		default:
			return
		}
		if err != nil {
			logger.Error("autosave failed", "event", ev.Type, "id", ev.Annotation.ID, "err", err)
			return
		}
		logger.Debug("autosaved", "event", ev.Type, "id", ev.Annotation.ID)
	}
}
