// Package app turns user intents into store mutations and the notification
// that follows each one. The TUI and the CLI both drive the list through it.
package app

import (
	"errors"

	"github.com/idilsaglam/cardtodo/internal/model"
	"github.com/idilsaglam/cardtodo/internal/notify"
	"github.com/idilsaglam/cardtodo/internal/store"
)

// App wires a Store to a notification Controller.
type App struct {
	store  *store.Store
	notice *notify.Controller
}

func New(s *store.Store, n *notify.Controller) *App {
	if n == nil {
		n = &notify.Controller{}
	}
	return &App{store: s, notice: n}
}

// Add creates a record from the draft. It returns true when the draft was
// accepted and the inputs should be cleared; on a validation error the
// notification carries the reason.
func (a *App) Add(name, age string) bool {
	if _, err := a.store.Add(name, age); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			a.notice.Show(ve.Message)
		}
		return false
	}
	a.notice.Show(notify.Added)
	return true
}

// Remove deletes the record with id. The confirmation is shown whether or not
// the id still existed.
func (a *App) Remove(id string) {
	a.store.Remove(id)
	a.notice.Show(notify.Deleted)
}

// Toggle flips completion on the record with id. No notification.
func (a *App) Toggle(id string) {
	a.store.Toggle(id)
}

// Records returns the current list, newest first.
func (a *App) Records() []model.Record { return a.store.List() }

// Notice returns the notification state for rendering.
func (a *App) Notice() *notify.Controller { return a.notice }
