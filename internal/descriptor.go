package internal

// Position is a game object's location and facing. Subsector is the leaf
// of the engine's BSP spatial index containing (X, Y); it is opaque to
// this package and computed by the engine, not the telemetry core.
//
// Subsector and GameObject.ID are process-unique numeric ids assigned by
// the game when the underlying object/BSP node is created, not raw
// pointer bit patterns — Go pointers aren't stable bit patterns under a
// moving GC.
type Position struct {
	X, Y, Z   float64
	Angle     float64
	Subsector uint64
}

// GameObject is the read-only view of an actor or target the game passes
// into an emission call. IsPlayer selects which fields are meaningful:
// players carry Armor, everything else doesn't.
type GameObject struct {
	Position Position
	IsPlayer bool
	Kind     EngineMobjType // ignored when IsPlayer is true
	Health   int
	Armor    int // only meaningful when IsPlayer is true
	ID       uint64
}

// Extra carries an optional top-level (key, value) pair to attach to a
// record. Value is either a scalar int or a nested map[string]any. Extra
// is referenced, not owned: the composer must not mutate or retain it
// beyond the emission call, and the caller's value must outlive that call.
type Extra struct {
	Key   string
	Value any
}

// EventDescriptor is the small value built at an emission call site.
type EventDescriptor struct {
	Kind   EventKind
	Actor  *GameObject
	Target *GameObject
	Extra  *Extra
}
