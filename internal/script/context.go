package script

// Context is the entire surface a script sees: every readable and mutable
// field is enumerated here, and every side effect goes through one of the
// callbacks. Callbacks left nil are unavailable in that hook context and
// fail the script with an ExecError when called.
type Context struct {
	// Amount is the shared accumulator mutated in place by stat
	// calculation hooks; its final value becomes the effective stat.
	Amount float64
	// IncomingDamage and OutgoingDamage are adjusted in place by damage
	// hooks before damage is finalized.
	IncomingDamage float64
	OutgoingDamage float64
	// Round is the battle's current round counter.
	Round float64

	// Custom is the active status instance's free-form numeric state.
	Custom map[string]float64
	// CustomLists is the active status instance's growable list state,
	// appended to by the append builtin and measured by count.
	CustomLists map[string][]float64

	// Lookup resolves readable dotted names (caster.hp, target.attack,
	// status.remaining, ...). The second result is false for names that
	// have no value in this invocation.
	Lookup func(name string) (float64, bool)

	// Rand returns a deterministic uniform value in [0, max) drawn from
	// the battle's random source.
	Rand func(max float64) float64

	// HasStatus reports whether the caster currently has a status with
	// the given name.
	HasStatus func(name string) bool

	// Mutation surface.
	DealDamage    func(amount float64, raw bool) error
	Heal          func(amount float64) error
	ApplyStatus   func() error
	RemoveStatus  func(name string) error
	Draw          func(n int) error
	DiscardCards  func(n int) error
	Shuffle       func() error
	SelfDestruct  func() error
	PreventExpire func()
	PreventQueue  func()
}
