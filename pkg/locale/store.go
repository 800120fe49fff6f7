package locale

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
)

// Listener is told about every locale change.
type Listener func(Locale)

// Store owns the locale preference. It starts on the interim default, is
// resolved once by Init and changes only through Toggle or Set.
type Store struct {
	mu       sync.RWMutex
	current  Locale
	resolved bool
	// generation counts Toggle and Set calls; Init yields to any that ran
	// while it was reading storage.
	generation uint64

	storage  Storage
	device   DeviceDetector
	fallback Locale

	listeners map[int]Listener
	nextID    int

	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes storage failures to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDevice overrides device language detection.
func WithDevice(detector DeviceDetector) Option {
	return func(s *Store) {
		if detector != nil {
			s.device = detector
		}
	}
}

// WithFallback sets the hardcoded default used when nothing else resolves.
func WithFallback(l Locale) Option {
	return func(s *Store) {
		if l.Valid() {
			s.fallback = l
		}
	}
}

// NewStore builds a store backed by storage. A nil storage keeps the
// preference in memory.
func NewStore(storage Storage, opts ...Option) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		storage:   storage,
		device:    EnvDevice,
		fallback:  Default,
		listeners: make(map[int]Listener),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.current = s.fallback
	return s
}

// Init resolves the locale from storage, then the device, then the
// fallback. A storage read failure is logged and resolves to the fallback
// without consulting the device. A Toggle or Set that lands while Init is
// reading wins: Init then only marks the store resolved and returns the
// locale that call activated.
func (s *Store) Init(ctx context.Context) Locale {
	s.mu.RLock()
	started := s.generation
	s.mu.RUnlock()

	resolved := s.resolve(ctx)

	s.mu.Lock()
	s.resolved = true
	if s.generation != started {
		current := s.current
		s.mu.Unlock()
		s.logger.Debug("locale changed during init, keeping it", "locale", current, "resolved", resolved)
		return current
	}
	changed := s.current != resolved
	s.current = resolved
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if changed {
		notify(listeners, resolved)
	}
	return resolved
}

// InitAsync runs Init in the background. Until it completes Current keeps
// returning the interim default, which is always a valid locale. A toggle
// made on the interim default is kept once the read completes.
func (s *Store) InitAsync(ctx context.Context) <-chan Locale {
	done := make(chan Locale, 1)
	go func() {
		done <- s.Init(ctx)
		close(done)
	}()
	return done
}

func (s *Store) resolve(ctx context.Context) Locale {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Error("error loading locale", "key", StorageKey, "error", err)
		return s.fallback
	}
	if ok {
		if stored, valid := Parse(raw); valid {
			return stored
		}
		s.logger.Warn("ignoring invalid stored locale", "key", StorageKey, "value", raw)
	}
	if device, supported := FromDevice(s.device()); supported {
		return device
	}
	return s.fallback
}

// Current returns the active locale.
func (s *Store) Current() Locale {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Resolved reports whether Init has completed.
func (s *Store) Resolved() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolved
}

// Toggle flips between the two locales. The new value is written to storage
// before it becomes visible to Current or listeners; a failed write is
// logged and the flip still happens. Overlapping toggles are not
// serialised and the last write wins.
func (s *Store) Toggle(ctx context.Context) Locale {
	next := s.Current().Toggle()
	s.apply(ctx, next)
	return next
}

// Set persists and activates l.
func (s *Store) Set(ctx context.Context, l Locale) error {
	if !l.Valid() {
		return &UnsupportedError{Value: string(l)}
	}
	s.apply(ctx, l)
	return nil
}

func (s *Store) apply(ctx context.Context, next Locale) {
	s.mu.Lock()
	s.generation++
	s.mu.Unlock()

	if err := s.storage.Set(ctx, StorageKey, next.String()); err != nil {
		s.logger.Error("error saving locale", "key", StorageKey, "locale", next, "error", err)
	}

	s.mu.Lock()
	changed := s.current != next
	s.current = next
	listeners := s.listenersLocked()
	s.mu.Unlock()

	if changed {
		notify(listeners, next)
	}
}

// Subscribe registers fn for locale changes. Listeners run synchronously on
// the goroutine that changed the locale.
func (s *Store) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) listenersLocked() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

func notify(listeners []Listener, l Locale) {
	for _, fn := range listeners {
		fn(l)
	}
}

// UnsupportedError reports a locale outside the supported set.
type UnsupportedError struct {
	Value string
}

func (e *UnsupportedError) Error() string {
	return "locale: unsupported locale " + `"` + e.Value + `"`
}
