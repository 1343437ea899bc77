// Package gallery manages the ordered, capped, persisted collection of
// saved dashboard images together with the transient selection used for
// fullscreen view and side-by-side comparison.
//
// In-memory state is the source of truth: Add and Remove apply their change
// synchronously, then persist the full sequence best-effort. A failed write
// is reported to the operator log channel and never rolls back memory, so
// the in-memory gallery can diverge from the persisted copy until the next
// successful write.
package gallery

import (
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/planktos/planktos-go/internal/logging"
)

// DefaultMaxItems caps the gallery length; the oldest entries are evicted
// on overflow in strict insertion order.
const DefaultMaxItems = 200

// MaxSelection bounds the comparison selection.
const MaxSelection = 2

// Item is a single saved gallery image.
type Item struct {
	ID string `json:"id"`
	// Name is the display name, usually the uploaded file name.
	Name string `json:"name"`
	// ImageData is a self-contained encoded image payload (a data URL), so
	// the gallery survives invalidation of the original upload URL.
	ImageData string `json:"imageData"`
	// Timestamp is the creation time in Unix milliseconds. Eviction is by
	// insertion order, never by this value, so clock skew cannot reorder it.
	Timestamp int64 `json:"ts"`
	// AutoSaved is true when the item was added automatically after a
	// successful detection rather than by explicit user action.
	AutoSaved bool `json:"autoSaved"`
}

// Store holds the gallery sequence, newest first, plus the selection set.
// All methods are safe for concurrent use; Add and Remove are the sole
// writers of the sequence.
type Store struct {
	mu        sync.Mutex
	items     []Item
	selection []string
	maxItems  int
	slot      Slot
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxItems overrides the retention cap.
func WithMaxItems(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithLogger sets the operator-facing logger for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the time source, used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates a Store backed by slot and loads any persisted sequence.
// A corrupt or unreadable slot logs a warning and starts with an empty
// gallery, the same silent recovery a first run gets.
func NewStore(slot Slot, opts ...Option) *Store {
	s := &Store{
		maxItems: DefaultMaxItems,
		slot:     slot,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.Operator()
	}
	s.load()
	return s
}

// load reads the persisted sequence from the slot.
func (s *Store) load() {
	data, exists, err := s.slot.Read()
	if err != nil {
		s.logger.Warn("failed to read gallery slot, starting empty", "error", err)
		return
	}
	if !exists || len(data) == 0 {
		return
	}
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("failed to parse gallery slot, starting empty", "error", err)
		return
	}
	if len(items) > s.maxItems {
		items = items[:s.maxItems]
	}
	s.items = items
}

// newID generates a time-based id with a random suffix, stable for the
// item's lifetime.
func (s *Store) newID() string {
	const charset = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err == nil {
		for i := range suffix {
			suffix[i] = charset[int(suffix[i])%len(charset)]
		}
	} else {
		copy(suffix, "000000")
	}
	return strconv.FormatInt(s.now().UnixMilli(), 36) + string(suffix)
}

// Add constructs a new Item, prepends it, truncates to the retention cap
// and persists the full sequence. The returned Item carries the generated id.
func (s *Store) Add(name, imageData string, auto bool) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		name = "image"
	}
	item := Item{
		ID:        s.newID(),
		Name:      name,
		ImageData: imageData,
		Timestamp: s.now().UnixMilli(),
		AutoSaved: auto,
	}

	s.items = append([]Item{item}, s.items...)
	if len(s.items) > s.maxItems {
		s.items = s.items[:s.maxItems]
	}
	s.persistLocked()
	return item
}

// Remove filters the item out by id, persists the result and drops the id
// from the selection if present. It reports whether an item was removed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.items)
	s.items = slices.DeleteFunc(s.items, func(it Item) bool { return it.ID == id })
	if len(s.items) == before {
		return false
	}

	s.selection = slices.DeleteFunc(s.selection, func(sel string) bool { return sel == id })
	s.persistLocked()
	return true
}

// ToggleSelect toggles an id in the selection set. A selected id is
// deselected; selecting a new id while two are already selected replaces
// the entire selection with just the new id. Returns the selection after
// the toggle.
func (s *Store) ToggleSelect(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slices.Contains(s.selection, id) {
		s.selection = slices.DeleteFunc(s.selection, func(sel string) bool { return sel == id })
	} else if len(s.selection) >= MaxSelection {
		s.selection = []string{id}
	} else {
		s.selection = append(s.selection, id)
	}
	return slices.Clone(s.selection)
}

// ClearSelection resets the selection set. Called whenever the gallery view
// is opened or closed.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

// Selection returns a copy of the current selection set.
func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selection)
}

// Items returns a copy of the gallery sequence, most recently added first.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the item with the given id.
func (s *Store) Get(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Len returns the number of saved items.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persistLocked writes the full sequence to the slot. Failures (quota,
// permissions) are logged to the operator channel only; in-memory state is
// not rolled back. Callers must hold s.mu.
func (s *Store) persistLocked() {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error("failed to encode gallery sequence", "error", err, "items", len(s.items))
		return
	}
	if err := s.slot.Write(data); err != nil {
		s.logger.Error("failed to persist gallery slot", "error", err, "items", len(s.items))
	}
}
