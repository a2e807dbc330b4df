package langpref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
	"github.com/dmitrymomot/polyglot/pkg/kv"
	"github.com/dmitrymomot/polyglot/pkg/logger"
)

// DefaultKey is the persistence key used when none is configured.
const DefaultKey = "lang"

// Change describes a switch of the active language.
type Change struct {
	Previous string
	Current  string
}

// Source tells where the initial language came from.
type Source string

const (
	SourcePersisted Source = "persisted"
	SourceDetected  Source = "detected"
	SourceDefault   Source = "default"
)

// Option configures a Store.
type Option func(*Store)

// WithKey sets the persistence key.
// Default: "lang".
func WithKey(key string) Option {
	return func(s *Store) {
		s.key = key
	}
}

// WithDetectors sets the detectors consulted when nothing is persisted.
// They are tried in order; the first supported result wins.
func WithDetectors(detectors ...Detector) Option {
	return func(s *Store) {
		for _, d := range detectors {
			if d != nil {
				s.detectors = append(s.detectors, d)
			}
		}
	}
}

// WithLogger sets the logger.
// Default: no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

type subscriber struct {
	id uint64
	fn func(Change)
}

// Store holds the active language and its persisted counterpart.
// It is safe for concurrent use.
type Store struct {
	persist   kv.Store
	langs     i18n.Languages
	key       string
	detectors []Detector
	logger    *slog.Logger

	// setMu serializes writers so persistence and memory change in the same order.
	setMu  sync.Mutex
	mu     sync.RWMutex
	active string
	source Source

	subMu  sync.Mutex
	subs   []subscriber
	nextID uint64

	// pending holds changes in persistence order; one goroutine at a time
	// delivers them.
	queueMu    sync.Mutex
	pending    []Change
	delivering bool
}

// New creates a Store and resolves the initial active language.
// A persistence read failure is logged and treated as "nothing persisted".
func New(ctx context.Context, persist kv.Store, langs i18n.Languages, opts ...Option) (*Store, error) {
	if langs.Default() == "" {
		return nil, ErrNoLanguages
	}
	if persist == nil {
		persist = kv.NewMemory()
	}

	s := &Store{
		persist: persist,
		langs:   langs,
		key:     DefaultKey,
		logger:  logger.NewNope(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.key == "" {
		return nil, ErrEmptyKey
	}

	s.active, s.source = s.resolve(ctx)
	s.logger.DebugContext(ctx, "active language resolved",
		slog.String("lang", s.active),
		slog.String("source", string(s.source)),
	)

	return s, nil
}

// resolve walks the precedence chain: persisted, detected, default.
func (s *Store) resolve(ctx context.Context) (string, Source) {
	stored, err := s.persist.Get(ctx, s.key)
	switch {
	case err == nil:
		if code, ok := s.langs.Lookup(stored); ok {
			return code, SourcePersisted
		}
		s.logger.WarnContext(ctx, "removing unsupported persisted language",
			slog.String("lang", stored),
		)
		if err := s.persist.Remove(ctx, s.key); err != nil {
			s.logger.WarnContext(ctx, "failed to remove persisted language",
				slog.String("error", err.Error()),
			)
		}
	case !errors.Is(err, kv.ErrNotFound):
		s.logger.WarnContext(ctx, "failed to read persisted language",
			slog.String("error", err.Error()),
		)
	}

	for _, d := range s.detectors {
		if code, ok := s.detect(ctx, d); ok {
			return code, SourceDetected
		}
	}

	return s.langs.Default(), SourceDefault
}

func (s *Store) detect(ctx context.Context, d Detector) (string, bool) {
	if m, ok := d.(SetMatcher); ok {
		code, found := m.DetectIn(ctx, s.langs)
		if !found {
			return "", false
		}
		return s.langs.Match(code)
	}

	code, ok := d.Detect(ctx)
	if !ok {
		return "", false
	}
	return s.langs.Match(code)
}

// Active returns the active language.
func (s *Store) Active() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Source reports where the current value came from. After a successful Set
// it is SourcePersisted.
func (s *Store) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Languages returns the supported set.
func (s *Store) Languages() i18n.Languages {
	return s.langs
}

// Set makes code the active language. The code must be in the supported set
// (case and '_' versus '-' are ignored). The choice is persisted before the
// in-memory value changes; on persistence failure nothing changes.
// Subscribers are notified only when the language actually changed.
func (s *Store) Set(ctx context.Context, code string) error {
	lang, ok := s.langs.Lookup(code)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedLanguage, code)
	}

	s.setMu.Lock()
	if err := s.persist.Set(ctx, s.key, lang); err != nil {
		s.setMu.Unlock()
		return errors.Join(ErrPersist, err)
	}

	s.mu.Lock()
	prev := s.active
	s.active = lang
	s.source = SourcePersisted
	s.mu.Unlock()

	if prev != lang {
		s.queueMu.Lock()
		s.pending = append(s.pending, Change{Previous: prev, Current: lang})
		s.queueMu.Unlock()
	}
	s.setMu.Unlock()

	if prev == lang {
		return nil
	}

	s.logger.InfoContext(ctx, "active language changed",
		slog.String("previous", prev),
		slog.String("current", lang),
	)
	s.deliver()

	return nil
}

// deliver drains pending changes unless another goroutine is already doing
// so, in which case that goroutine delivers ours too.
func (s *Store) deliver() {
	s.queueMu.Lock()
	if s.delivering {
		s.queueMu.Unlock()
		return
	}
	s.delivering = true

	for len(s.pending) > 0 {
		c := s.pending[0]
		s.pending = s.pending[1:]
		s.queueMu.Unlock()

		s.notify(c)

		s.queueMu.Lock()
	}

	s.delivering = false
	s.queueMu.Unlock()
}

// Subscribe registers fn to be called after every language change.
// Changes are delivered one at a time in the order they were persisted, and
// each change reaches subscribers in subscription order. Delivery is
// synchronous on a goroutine that called Set; when Set calls race, one of
// them may deliver the other's change, and a Set made from inside a
// subscriber is delivered after the current change. The returned function
// removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.subMu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subs {
				if sub.id == id {
					s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn(c)
	}
}
