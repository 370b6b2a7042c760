// Package mode is the feature toggle engine. Every togglable behavior
// registers once at startup; runtime toggling only flips a persisted
// per-chat boolean that guards read at dispatch time. The dispatch table
// itself is never mutated.
package mode

import (
	"errors"
	"fmt"
	"log"
	"sync"
)

// ErrDuplicateMode is returned when a mode name is registered twice.
// Registration is fail-fast: modes are created once per process, so a second
// registration is a programmer error.
var ErrDuplicateMode = errors.New("mode already registered")

// Store is the slice of persistence the registry needs.
type Store interface {
	ModeState(mode string, chatID int64) (enabled, found bool, err error)
	SetModeState(mode string, chatID int64, enabled bool) error
}

// Mode describes one togglable behavior.
type Mode struct {
	Name      string
	Default   bool // applies when a chat never toggled the mode
	PinNotice bool // toggle commands should pin their notice message
	OnDisable func(chatID int64) error
}

// Registry maps mode names to their definitions and answers per-chat
// enabled/disabled queries against the store.
type Registry struct {
	store Store
	mu    sync.RWMutex
	modes map[string]Mode
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, modes: make(map[string]Mode)}
}

// Register adds a mode. Fails with ErrDuplicateMode on re-registration.
func (r *Registry) Register(m Mode) (*Mode, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.modes[m.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateMode, m.Name)
	}
	r.modes[m.Name] = m
	reg := m
	return &reg, nil
}

// Get returns a registered mode definition.
func (r *Registry) Get(name string) (Mode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modes[name]
	return m, ok
}

// All returns every registered mode.
func (r *Registry) All() []Mode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Mode, 0, len(r.modes))
	for _, m := range r.modes {
		list = append(list, m)
	}
	return list
}

// IsEnabled reads the persisted toggle, falling back to the mode's default
// when no record exists. Store errors also fall back to the default: this
// runs on the dispatch path and must not block or fail it.
func (r *Registry) IsEnabled(name string, chatID int64) bool {
	m, ok := r.Get(name)
	if !ok {
		log.Printf("[WARN] is_enabled for unregistered mode %q", name)
		return false
	}

	enabled, found, err := r.store.ModeState(name, chatID)
	if err != nil {
		log.Printf("[WARN] can't read state of mode %s in chat %d: %v", name, chatID, err)
		return m.Default
	}
	if !found {
		return m.Default
	}
	return enabled
}

// SetEnabled persists the new state. On a true→false transition the mode's
// OnDisable hook runs synchronously, at most once; hook failures are logged
// and never fail the toggle.
func (r *Registry) SetEnabled(name string, chatID int64, enabled bool) error {
	if _, ok := r.Get(name); !ok {
		return fmt.Errorf("unknown mode: %s", name)
	}

	was := r.IsEnabled(name, chatID)
	if err := r.store.SetModeState(name, chatID, enabled); err != nil {
		return err
	}

	if was && !enabled {
		r.runDisableHook(name, chatID)
	}
	return nil
}

// Guard returns a predicate the dispatch layer composes (logical AND) with a
// handler's own trigger.
func (r *Registry) Guard(name string) func(chatID int64) bool {
	return func(chatID int64) bool {
		return r.IsEnabled(name, chatID)
	}
}

func (r *Registry) runDisableHook(name string, chatID int64) {
	m, ok := r.Get(name)
	if !ok || m.OnDisable == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[WARN] disable hook of mode %s panicked: %v", name, rec)
		}
	}()
	if err := m.OnDisable(chatID); err != nil {
		log.Printf("[WARN] disable hook of mode %s failed: %v", name, err)
	}
}
