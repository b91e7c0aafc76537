// Package pieces is the sole mutator of piece counts (spec §4.1, Design
// Notes "Pieces as the single authority"). Every Command, Special
// Activity, Battle step, and Winter phase routes its piece changes
// through this package's Place/Remove/Move/Flip; nothing else writes a
// FactionBucket field directly. The options-struct idiom below
// follows the teacher's config-struct pattern for multi-field optional
// routing, adapted to the richer per-call routing this engine's rules
// require.
package pieces

import "github.com/talgya/gallia-engine/internal/catalog"

// PlaceOpts carries the optional routing fields for Place.
type PlaceOpts struct {
	FromTrack  bool // Legion only: take from the Legions track (already the default source for Legions)
	FromFallen bool // Legion only: take from Fallen rather than the Legions track
	LeaderID   *catalog.LeaderID
	State      catalog.PieceState // flippable placement state; defaults to Hidden
}

// RemoveOpts carries the optional routing fields for Remove.
type RemoveOpts struct {
	ToAvailable bool
	ToFallen    bool // Legion default when no routing is specified
	ToTrack     bool
	ToRemoved   bool // Diviciacus only
	State       catalog.PieceState
}

// MoveOpts carries the optional fields for Move.
type MoveOpts struct {
	State catalog.PieceState // flippables carry their current state across the move
}
