package selection

import (
	"context"
	"slices"

	"github.com/habedi/showcase/catalog"
	"github.com/rs/zerolog/log"
)

// Editor asks the user for an entry's content. A nil entry with a nil error
// means the user cancelled.
type Editor interface {
	Open(ctx context.Context, existing *catalog.Entry) (*catalog.Entry, error)
}

// EditEntry overwrites the title and description of the catalogue entry with
// updated.ID. Displayed copies of that entry are refreshed and re-sorted. An
// unknown id is a no-op.
func (e *Engine) EditEntry(updated catalog.Entry) (Outcome, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return NoOp, ErrNotLoaded
	}
	idx := e.cat.IndexOf(updated.ID)
	if updated.ID == "" || idx < 0 {
		e.mu.Unlock()
		log.Debug().Str("id", updated.ID).Msg("Edit ignored; no entry with that id")
		return NoOp, nil
	}

	e.cat[idx].Title = updated.Title
	e.cat[idx].Description = updated.Description
	refreshed := false
	for i := range e.displayed {
		if e.displayed[i].ID == updated.ID {
			e.displayed[i] = e.cat[idx]
			refreshed = true
		}
	}
	if refreshed {
		e.sortDisplayedLocked()
	}
	snapshot := e.cat.Clone()
	e.mu.Unlock()

	log.Info().Str("id", updated.ID).Msg("Entry updated")
	e.writer.enqueue(snapshot)
	return Applied, nil
}

// DeleteEntry removes the entry with the given id from the catalogue and the
// selection. Deleting the primary entry leaves the selection without one.
func (e *Engine) DeleteEntry(id string) (Outcome, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return NoOp, ErrNotLoaded
	}
	idx := e.cat.IndexOf(id)
	if id == "" || idx < 0 {
		e.mu.Unlock()
		log.Debug().Str("id", id).Msg("Delete ignored; no entry with that id")
		return NoOp, nil
	}

	e.cat = slices.Delete(e.cat, idx, idx+1)
	delete(e.used, id)
	e.displayed = slices.DeleteFunc(e.displayed, func(en catalog.Entry) bool { return en.ID == id })
	if e.primaryID == id {
		e.primaryID = ""
	}
	snapshot := e.cat.Clone()
	e.mu.Unlock()

	log.Info().Str("id", id).Msg("Entry deleted")
	e.writer.enqueue(snapshot)
	return Applied, nil
}

// CreateEntry appends candidate to the catalogue and returns it as stored.
// A missing or already taken id is replaced with a fresh one.
func (e *Engine) CreateEntry(candidate catalog.Entry) (catalog.Entry, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return catalog.Entry{}, ErrNotLoaded
	}
	entry := candidate
	for entry.ID == "" || e.cat.IndexOf(entry.ID) >= 0 {
		entry.ID = catalog.NewID()
	}
	e.cat = append(e.cat, entry)
	snapshot := e.cat.Clone()
	e.mu.Unlock()

	log.Info().Str("id", entry.ID).Str("title", entry.Title).Msg("Entry created")
	e.writer.enqueue(snapshot)
	return entry, nil
}

// Create opens the editor for a new entry and stores the result.
func (e *Engine) Create(ctx context.Context, ed Editor) (Outcome, error) {
	if !e.Loaded() {
		return NoOp, ErrNotLoaded
	}
	result, err := ed.Open(ctx, nil)
	if err != nil {
		return NoOp, err
	}
	if result == nil {
		log.Debug().Msg("Entry creation cancelled")
		return NoOp, nil
	}
	if _, err := e.CreateEntry(*result); err != nil {
		return NoOp, err
	}
	return Applied, nil
}

// Edit opens the editor on the entry with the given id and applies the result.
// The entry keeps its id whatever the editor returns.
func (e *Engine) Edit(ctx context.Context, ed Editor, id string) (Outcome, error) {
	e.mu.Lock()
	if !e.loaded {
		e.mu.Unlock()
		return NoOp, ErrNotLoaded
	}
	idx := e.cat.IndexOf(id)
	if id == "" || idx < 0 {
		e.mu.Unlock()
		return NoOp, nil
	}
	existing := e.cat[idx]
	e.mu.Unlock()

	result, err := ed.Open(ctx, &existing)
	if err != nil {
		return NoOp, err
	}
	if result == nil {
		log.Debug().Str("id", id).Msg("Entry edit cancelled")
		return NoOp, nil
	}
	updated := *result
	updated.ID = id
	return e.EditEntry(updated)
}
