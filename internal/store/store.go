// Package store is the in-memory state store behind the style panel: the
// global default style, the collection of styleable items, the selection,
// the render effect setting and the list of available fonts.
//
// Writes are last-writer-wins per field. Every write is reported through a
// notify.Notifier so views can refresh.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/textstyle/internal/fonts"
	"github.com/dshills/textstyle/internal/logging"
	"github.com/dshills/textstyle/internal/notify"
	"github.com/dshills/textstyle/internal/style"
)

// Change paths reported by the store.
const (
	PathDefaultStyle = "style.default"
	PathItems        = "items"
	PathSelection    = "selection"
	PathRenderEffect = "render.effect"
	PathFonts        = "fonts"
)

const source = "store"

// ErrItemNotFound is returned for an unknown item handle.
var ErrItemNotFound = errors.New("item not found")

// ItemID is a stable handle for an item. Handles survive reordering and
// removal of other items.
type ItemID uuid.UUID

// NilItem is the zero handle.
var NilItem ItemID

// NewItemID returns a fresh random handle.
func NewItemID() ItemID {
	return ItemID(uuid.New())
}

// String returns the canonical UUID form.
func (id ItemID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id is the zero handle.
func (id ItemID) IsNil() bool {
	return id == NilItem
}

// ItemPath returns the change path of one item.
func ItemPath(id ItemID) string {
	return PathItems + "." + id.String()
}

// Item is a styleable text item.
type Item struct {
	ID   ItemID
	Text string

	// Style is the item's own style. Nil means the item follows the
	// global default entirely.
	Style *style.Record
}

func (it Item) clone() Item {
	if it.Style != nil {
		s := it.Style.Clone()
		it.Style = &s
	}
	return it
}

// fontState tracks the single font fetch.
type fontState uint8

const (
	fontsIdle fontState = iota
	fontsLoading
	fontsLoaded
)

// Store holds the shared style state. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	defaultStyle style.Record
	items        []Item
	selected     ItemID
	renderEffect style.Effect

	fonts     []string
	fontState fontState
	fontsDone chan struct{}
	fontsErr  error

	notifier *notify.Notifier
	logger   *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier sets the notifier used to report changes.
func WithNotifier(n *notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithDefaultStyle sets the initial global default style.
func WithDefaultStyle(r style.Record) Option {
	return func(s *Store) {
		s.defaultStyle = r.Clone()
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.New()
	}
	s.logger = logging.OrNop(s.logger).WithComponent("store")
	return s
}

// Notifier returns the notifier reporting store changes.
func (s *Store) Notifier() *notify.Notifier {
	return s.notifier
}

// DefaultStyle returns a copy of the global default style.
func (s *Store) DefaultStyle() style.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultStyle.Clone()
}

// SetDefaultStyle replaces the global default style.
func (s *Store) SetDefaultStyle(r style.Record) {
	r = r.Clone()

	s.mu.Lock()
	s.defaultStyle = r
	s.mu.Unlock()

	s.notifier.Set(PathDefaultStyle, r.Clone(), source)
}

// Add appends an item and returns its handle. A nil style makes the item
// follow the global default.
func (s *Store) Add(text string, r *style.Record) ItemID {
	it := Item{ID: NewItemID(), Text: text, Style: r}.clone()

	s.mu.Lock()
	s.items = append(s.items, it)
	s.mu.Unlock()

	s.notifier.Set(ItemPath(it.ID), it.clone(), source)
	return it.ID
}

// Len returns the number of items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Items returns a copy of the item collection in order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	for i, it := range s.items {
		out[i] = it.clone()
	}
	return out
}

// Item returns a copy of one item.
func (s *Store) Item(id ItemID) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Item{}, false
	}
	return s.items[i].clone(), true
}

// ReplaceItem replaces the style of one item.
func (s *Store) ReplaceItem(id ItemID, r *style.Record) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("replace %s: %w", id, ErrItemNotFound)
	}
	s.items[i] = Item{ID: id, Text: s.items[i].Text, Style: r}.clone()
	it := s.items[i].clone()
	s.mu.Unlock()

	s.notifier.Set(ItemPath(id), it, source)
	return nil
}

// ReplaceItems replaces the whole collection. Items with a nil handle get
// a fresh one. The selection is cleared when the selected item is gone.
func (s *Store) ReplaceItems(items []Item) {
	next := make([]Item, len(items))
	for i, it := range items {
		if it.ID.IsNil() {
			it.ID = NewItemID()
		}
		next[i] = it.clone()
	}

	s.mu.Lock()
	s.items = next
	selectionLost := !s.selected.IsNil() && s.indexLocked(s.selected) < 0
	if selectionLost {
		s.selected = NilItem
	}
	s.mu.Unlock()

	batch := s.notifier.NewBatch()
	batch.Set(PathItems, len(next), source)
	if selectionLost {
		batch.Add(notify.Change{Path: PathSelection, Kind: notify.KindDelete, Source: source})
	}
	batch.Commit()
}

// Remove deletes an item. Removing the selected item clears the selection.
func (s *Store) Remove(id ItemID) error {
	s.mu.Lock()
	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("remove %s: %w", id, ErrItemNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	selectionLost := s.selected == id
	if selectionLost {
		s.selected = NilItem
	}
	s.mu.Unlock()

	s.notifier.Delete(ItemPath(id), source)
	if selectionLost {
		s.notifier.Delete(PathSelection, source)
	}
	return nil
}

// Select makes id the selected item.
func (s *Store) Select(id ItemID) error {
	s.mu.Lock()
	if s.indexLocked(id) < 0 {
		s.mu.Unlock()
		return fmt.Errorf("select %s: %w", id, ErrItemNotFound)
	}
	s.selected = id
	s.mu.Unlock()

	s.notifier.Set(PathSelection, id, source)
	return nil
}

// ClearSelection deselects any item.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	had := !s.selected.IsNil()
	s.selected = NilItem
	s.mu.Unlock()

	if had {
		s.notifier.Delete(PathSelection, source)
	}
}

// Selected returns the selected item handle.
func (s *Store) Selected() (ItemID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected, !s.selected.IsNil()
}

// RenderEffect returns the render effect setting.
func (s *Store) RenderEffect() style.Effect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.renderEffect
}

// SetRenderEffect sets the render effect setting.
func (s *Store) SetRenderEffect(e style.Effect) {
	s.mu.Lock()
	s.renderEffect = e
	s.mu.Unlock()

	s.notifier.Set(PathRenderEffect, e, source)
}

// Fonts returns the available font families.
func (s *Store) Fonts() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.fonts...)
}

// SetFonts replaces the available font families and marks them loaded.
func (s *Store) SetFonts(families []string) {
	families = append([]string(nil), families...)

	s.mu.Lock()
	s.fonts = families
	s.fontState = fontsLoaded
	s.mu.Unlock()

	s.notifier.Set(PathFonts, append([]string(nil), families...), source)
}

// FontsLoaded reports whether a font list is present.
func (s *Store) FontsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontState == fontsLoaded
}

// RequestFonts starts fetching the font list from src in the background
// unless a list is loaded or a fetch is in flight. It reports whether a
// fetch was started. The fetch is not awaited; see WaitFonts. A failed
// fetch leaves the list unloaded so a later request may retry.
func (s *Store) RequestFonts(ctx context.Context, src fonts.Source) bool {
	if src == nil {
		return false
	}

	s.mu.Lock()
	if s.fontState != fontsIdle {
		s.mu.Unlock()
		return false
	}
	s.fontState = fontsLoading
	done := make(chan struct{})
	s.fontsDone = done
	s.fontsErr = nil
	s.mu.Unlock()

	go func() {
		defer close(done)

		families, err := src.Families(ctx)
		if err != nil {
			s.logger.Warn("font fetch failed: %v", err)
			s.mu.Lock()
			s.fontState = fontsIdle
			s.fontsErr = err
			s.mu.Unlock()
			return
		}

		s.logger.Debug("loaded %d font families", len(families))
		s.SetFonts(families)
	}()

	return true
}

// WaitFonts blocks until an in-flight font fetch finishes and returns its
// error. It returns immediately when no fetch was started.
func (s *Store) WaitFonts(ctx context.Context) error {
	s.mu.RLock()
	done := s.fontsDone
	s.mu.RUnlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontsErr
}

func (s *Store) indexLocked(id ItemID) int {
	if id.IsNil() {
		return -1
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
