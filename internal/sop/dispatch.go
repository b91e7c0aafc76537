package sop

import (
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/state"
)

// EventHandler is a pure function of (state, shaded, params) implementing
// one card's Event text (spec §6.2). It mutates state via
// Pieces/Commands/SAs and may set state.EventModifiers flags consumed by
// commands later in the same card turn; it returns an error on an
// unsatisfiable precondition rather than silently doing nothing.
type EventHandler func(s *state.State, shaded bool, params map[string]any) error

// EventRegistry is the dispatch table from card id to handler (spec §6.2,
// Design Notes "Card-effect table": a dispatch table, never a subclass
// hierarchy). The 70+ entries of the real card table are out of scope
// (spec §1); a reimplementation wires each card's two handlers
// (unshaded/shaded) into a registry built this way.
type EventRegistry map[state.CardID]EventHandler

// NewEventRegistry returns an empty registry.
func NewEventRegistry() EventRegistry {
	return make(EventRegistry)
}

// Register adds (or overwrites) the handler for a card id.
func (r EventRegistry) Register(id state.CardID, h EventHandler) {
	r[id] = h
}

// Execute looks up and runs the handler for id, passing shaded/params
// through unchanged. Returns an UnknownRegion-tagged error (the closest
// taxonomy member for "unknown identifier") if no handler is registered.
func (r EventRegistry) Execute(s *state.State, id state.CardID, shaded bool, params map[string]any) error {
	h, ok := r[id]
	if !ok {
		return gameerr.Newf(gameerr.UnknownRegion, "no Event handler registered for card %d", id)
	}
	return h(s, shaded, params)
}
