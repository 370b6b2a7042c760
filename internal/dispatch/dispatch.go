// Package dispatch routes inbound updates to handler bindings. The table is
// built once at startup; toggling a mode only flips the boolean its guard
// reads, so the very next dispatched update observes the new state.
package dispatch

import (
	"log"

	"kebab-bot/internal/platform"
)

// Predicate decides whether a binding wants an update.
type Predicate func(u *platform.Update) bool

// Guard gates a binding per chat (typically a mode guard).
type Guard func(chatID int64) bool

// Action handles an update.
type Action func(u *platform.Update) error

type binding struct {
	name      string
	guard     Guard
	when      Predicate
	run       Action
	exclusive bool
}

// Table is an ordered set of bindings. Registration happens at startup only;
// Dispatch may be called from many goroutines.
type Table struct {
	bindings []binding
}

func NewTable() *Table {
	return &Table{}
}

// Bind appends a binding. A nil guard means always active.
func (t *Table) Bind(name string, guard Guard, when Predicate, run Action) {
	t.bindings = append(t.bindings, binding{name: name, guard: guard, when: when, run: run})
}

// BindExclusive appends a binding that stops propagation when it fires.
// Used for filters that consume the message (quarantine, smile, paradise).
func (t *Table) BindExclusive(name string, guard Guard, when Predicate, run Action) {
	t.bindings = append(t.bindings, binding{name: name, guard: guard, when: when, run: run, exclusive: true})
}

// Dispatch walks the table in registration order. Each action runs with
// panic isolation; one bad handler never takes down the loop.
func (t *Table) Dispatch(u *platform.Update) {
	for i := range t.bindings {
		b := &t.bindings[i]
		if b.guard != nil && !b.guard(u.ChatID) {
			continue
		}
		if b.when != nil && !b.when(u) {
			continue
		}
		if runBinding(b, u); b.exclusive {
			return
		}
	}
}

func runBinding(b *binding, u *platform.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[ERR] handler %s panicked on update in chat %d: %v", b.name, u.ChatID, r)
		}
	}()
	if err := b.run(u); err != nil {
		log.Printf("[ERR] handler %s failed in chat %d: %v", b.name, u.ChatID, err)
	}
}

// Command matches "/name [args]" updates.
func Command(name string) Predicate {
	return func(u *platform.Update) bool {
		return u.Command == name
	}
}

// Message matches plain (non-command, non-status, non-callback) messages.
func Message() Predicate {
	return func(u *platform.Update) bool {
		return u.Command == "" && !u.IsStatus && u.CallbackID == "" && u.Message.MessageID != 0
	}
}

// Joined matches updates carrying new chat members.
func Joined() Predicate {
	return func(u *platform.Update) bool {
		return len(u.NewMembers) > 0
	}
}

// Callback matches button presses carrying the given payload.
func Callback(data string) Predicate {
	return func(u *platform.Update) bool {
		return u.CallbackID != "" && u.CallbackData == data
	}
}

// Any matches everything.
func Any() Predicate {
	return func(u *platform.Update) bool { return true }
}

// And composes predicates.
func And(ps ...Predicate) Predicate {
	return func(u *platform.Update) bool {
		for _, p := range ps {
			if !p(u) {
				return false
			}
		}
		return true
	}
}

// Or matches when any predicate does.
func Or(ps ...Predicate) Predicate {
	return func(u *platform.Update) bool {
		for _, p := range ps {
			if p(u) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(p Predicate) Predicate {
	return func(u *platform.Update) bool { return !p(u) }
}
