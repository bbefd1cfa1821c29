// Package selection implements the replace/append/reset state machine over a
// loaded catalogue: which entries are in use, which are displayed and in what
// order, and when a request must be refused with an alert.
package selection

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/habedi/showcase/alert"
	"github.com/habedi/showcase/catalog"
	"github.com/habedi/showcase/reset"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale orders titles when no locale is configured.
const DefaultLocale = "pl"

// ErrNotLoaded is returned by commands issued before a catalogue was applied.
var ErrNotLoaded = errors.New("catalogue has not been loaded yet")

// Outcome tells a caller what a command did.
type Outcome int

const (
	// NoOp means nothing changed and nothing was reported to the user.
	NoOp Outcome = iota
	// Applied means the state changed.
	Applied
	// Rejected means nothing changed and an alert was raised.
	Rejected
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Rejected:
		return "rejected"
	default:
		return "no-op"
	}
}

// Alerter surfaces constraint violations to the user.
type Alerter interface {
	Display(message string)
	Clear()
}

// ResetSource delivers reset signals.
type ResetSource interface {
	Subscribe(h reset.Handler) (unsubscribe func())
}

// Config wires an Engine to its collaborators. Only Store is required for Load;
// everything else has a usable default.
type Config struct {
	Store  catalog.Store
	Alerts Alerter
	Resets ResetSource
	// Locale is a BCP 47 tag used to order displayed titles.
	Locale string
	// Intn returns a uniform integer in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
}

// State is a snapshot of the selection.
type State struct {
	// PrimaryIndex is -1 when there is no primary entry.
	PrimaryIndex int
	// UsedIndices is in ascending order.
	UsedIndices []int
	Displayed   []catalog.Entry
	Option      Option
}

// Engine owns the selection state for one session. Its methods are safe for
// concurrent use, but the commands are meant to be driven from a single loop.
type Engine struct {
	mu        sync.Mutex
	cat       catalog.Catalog
	loaded    bool
	option    Option
	primaryID string
	// used is keyed by entry id so edits and deletions never shift membership.
	used      map[string]struct{}
	displayed []catalog.Entry

	store       catalog.Store
	alerts      Alerter
	writer      *persistQueue
	intn        func(int) int
	collator    *collate.Collator
	unsubscribe func()
}

// New creates an engine and subscribes it to cfg.Resets straight away, so a
// reset published while the catalogue is still loading is not missed.
func New(cfg Config) *Engine {
	tag, err := language.Parse(cfg.Locale)
	if cfg.Locale == "" || err != nil {
		if cfg.Locale != "" {
			log.Warn().Err(err).Str("locale", cfg.Locale).Msg("Invalid locale; using default")
		}
		tag = language.MustParse(DefaultLocale)
	}

	e := &Engine{
		used:     make(map[string]struct{}),
		store:    cfg.Store,
		alerts:   cfg.Alerts,
		writer:   newPersistQueue(cfg.Store),
		intn:     cfg.Intn,
		collator: collate.New(tag),
	}
	if e.alerts == nil {
		e.alerts = nopAlerter{}
	}
	if e.intn == nil {
		e.intn = rand.IntN
	}
	if cfg.Resets != nil {
		e.unsubscribe = cfg.Resets.Subscribe(func(value bool) {
			if value {
				e.Reset()
			}
		})
	}
	return e
}

// Load retrieves the catalogue from the store and applies it. The catalogue is
// applied at most once; a second call reports false and changes nothing.
func (e *Engine) Load(ctx context.Context) bool {
	var c catalog.Catalog
	if e.store != nil {
		c = e.store.Load(ctx)
	} else {
		log.Error().Msg("Selection engine has no catalogue store; starting empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loaded {
		log.Warn().Msg("Catalogue already applied; ignoring late load result")
		return false
	}
	e.initializeLocked(c)
	log.Info().Int("entries", len(e.cat)).Msg("Catalogue applied to selection")
	return true
}

// Initialize adopts c as the session catalogue and shows its first entry.
func (e *Engine) Initialize(c catalog.Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.initializeLocked(c)
}

func (e *Engine) initializeLocked(c catalog.Catalog) {
	e.cat = c.Clone()
	if e.cat == nil {
		e.cat = catalog.Catalog{}
	}
	e.cat.EnsureIDs()
	e.loaded = true
	e.resetLocked()
}

func (e *Engine) resetLocked() {
	e.used = make(map[string]struct{})
	if len(e.cat) == 0 {
		e.primaryID = ""
		e.displayed = nil
		return
	}
	first := e.cat[0]
	e.primaryID = first.ID
	e.used[first.ID] = struct{}{}
	e.displayed = []catalog.Entry{first}
}

// SelectOption records the strategy for the next replace or append.
func (e *Engine) SelectOption(o Option) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.option = o
	log.Debug().Str("option", string(o)).Msg("Option selected")
}

// Selected returns the recorded strategy.
func (e *Engine) Selected() Option {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.option
}

type resolution int

const (
	resolved resolution = iota
	unresolvable
	exhausted
)

// resolveLocked maps the selected option to a catalogue position.
func (e *Engine) resolveLocked() (int, resolution) {
	if idx, ok := e.option.fixedIndex(); ok {
		if idx >= len(e.cat) {
			return 0, unresolvable
		}
		return idx, resolved
	}
	if e.option != Random {
		return 0, unresolvable
	}

	available := make([]int, 0, len(e.cat))
	for i, entry := range e.cat {
		if _, used := e.used[entry.ID]; !used {
			available = append(available, i)
		}
	}
	if len(available) == 0 {
		return 0, exhausted
	}
	return available[e.intn(len(available))], resolved
}

// Replace clears the selection and shows exactly the resolved entry.
func (e *Engine) Replace() (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return NoOp, ErrNotLoaded
	}
	if len(e.cat) == 0 {
		return NoOp, nil
	}
	idx, res := e.resolveLocked()
	if res != resolved {
		log.Debug().Str("option", string(e.option)).Msg("Replace resolved to nothing")
		return NoOp, nil
	}

	entry := e.cat[idx]
	e.used = map[string]struct{}{entry.ID: {}}
	e.primaryID = entry.ID
	e.displayed = []catalog.Entry{entry}
	log.Debug().Int("index", idx).Str("id", entry.ID).Msg("Content replaced")
	return Applied, nil
}

// Append adds the resolved entry to the selection unless it is already there
// or, for random, nothing is left; both refusals raise an alert.
func (e *Engine) Append() (Outcome, error) {
	outcome, message, err := e.appendLocked()
	if message != "" {
		e.alerts.Display(message)
	}
	return outcome, err
}

func (e *Engine) appendLocked() (Outcome, string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		return NoOp, "", ErrNotLoaded
	}
	if len(e.cat) == 0 {
		return NoOp, "", nil
	}

	idx, res := e.resolveLocked()
	switch res {
	case unresolvable:
		return NoOp, "", nil
	case exhausted:
		return Rejected, alert.MsgAllUsed, nil
	}

	entry := e.cat[idx]
	if _, used := e.used[entry.ID]; used {
		return Rejected, alert.MsgAlreadyAdded, nil
	}
	e.used[entry.ID] = struct{}{}
	e.displayed = append(e.displayed, entry)
	e.sortDisplayedLocked()
	log.Debug().Int("index", idx).Str("id", entry.ID).Msg("Content appended")
	return Applied, "", nil
}

// Reset returns to the initial single-entry state and clears any alert.
// The selected option is kept.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.resetLocked()
	e.mu.Unlock()
	e.alerts.Clear()
	log.Debug().Msg("Selection reset")
}

// sortDisplayedLocked orders displayed entries by title; equal titles keep insertion order.
func (e *Engine) sortDisplayedLocked() {
	slices.SortStableFunc(e.displayed, func(a, b catalog.Entry) int {
		return e.collator.CompareString(a.Title, b.Title)
	})
}

// State returns a snapshot of the selection.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := State{PrimaryIndex: -1, UsedIndices: []int{}, Option: e.option}
	for i, entry := range e.cat {
		if _, used := e.used[entry.ID]; used {
			st.UsedIndices = append(st.UsedIndices, i)
		}
		if e.primaryID != "" && entry.ID == e.primaryID {
			st.PrimaryIndex = i
		}
	}
	st.Displayed = slices.Clone(e.displayed)
	if st.Displayed == nil {
		st.Displayed = []catalog.Entry{}
	}
	return st
}

// Catalog returns a copy of the session catalogue.
func (e *Engine) Catalog() catalog.Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cat.Clone()
}

// Loaded reports whether a catalogue has been applied.
func (e *Engine) Loaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loaded
}

// Wait blocks until every queued persist has been written.
func (e *Engine) Wait() {
	e.writer.wait()
}

// Close stops listening for resets and waits for pending writes.
func (e *Engine) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
	}
	e.writer.wait()
}

type nopAlerter struct{}

func (nopAlerter) Display(string) {}
func (nopAlerter) Clear()         {}
