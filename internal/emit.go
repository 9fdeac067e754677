package internal

// The On* functions are the public emission surface: one small, typed
// entry point per event kind, each building an
// EventDescriptor and handing it to the current TelemetrySystem. When
// telemetry is disabled (or never initialized), every call below is a
// no-op: no allocation beyond the descriptor itself, no I/O, no sequence
// advance.

func OnStartLevel(tic uint32, level int) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindStartLevel,
		Extra: &Extra{Key: "level", Value: level},
	}, tic)
}

func OnEndLevel(tic uint32, level int) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindEndLevel,
		Extra: &Extra{Key: "level", Value: level},
	}, tic)
}

func OnTargeted(tic uint32, actor, target *GameObject) {
	currentSystem().emit(EventDescriptor{
		Kind:   KindTargeted,
		Actor:  actor,
		Target: target,
	}, tic)
}

func OnKill(tic uint32, actor, target *GameObject) {
	currentSystem().emit(EventDescriptor{
		Kind:   KindKilled,
		Actor:  actor,
		Target: target,
	}, tic)
}

func OnPlayerDied(tic uint32, player, killer *GameObject) {
	currentSystem().emit(EventDescriptor{
		Kind:   KindKilled,
		Actor:  killer,
		Target: player,
	}, tic)
}

func OnAttack(tic uint32, actor, target *GameObject) {
	currentSystem().emit(EventDescriptor{
		Kind:   KindAttack,
		Actor:  actor,
		Target: target,
	}, tic)
}

func OnCounterAttack(tic uint32, actor, target *GameObject) {
	currentSystem().emit(EventDescriptor{
		Kind:   KindCounterAttack,
		Actor:  actor,
		Target: target,
	}, tic)
}

func OnHit(tic uint32, actor, target *GameObject, damage int) {
	currentSystem().emit(EventDescriptor{
		Kind:   KindHit,
		Actor:  actor,
		Target: target,
		Extra:  &Extra{Key: "damage", Value: damage},
	}, tic)
}

func OnMove(tic uint32, actor *GameObject) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindMove,
		Actor: actor,
	}, tic)
}

func OnPickupWeapon(tic uint32, actor *GameObject, weapon string) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindPickupWeapon,
		Actor: actor,
		Extra: &Extra{Key: "weapon", Value: weapon},
	}, tic)
}

func OnPickupHealth(tic uint32, actor *GameObject, amount int) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindPickupHealth,
		Actor: actor,
		Extra: &Extra{Key: "amount", Value: amount},
	}, tic)
}

func OnPickupArmor(tic uint32, actor *GameObject, amount int) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindPickupArmor,
		Actor: actor,
		Extra: &Extra{Key: "amount", Value: amount},
	}, tic)
}

func OnPickupCard(tic uint32, actor *GameObject, card string) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindPickupCard,
		Actor: actor,
		Extra: &Extra{Key: "card", Value: card},
	}, tic)
}

func OnHealthBonus(tic uint32, actor *GameObject, amount int) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindHealthBonus,
		Actor: actor,
		Extra: &Extra{Key: "amount", Value: amount},
	}, tic)
}

func OnArmorBonus(tic uint32, actor *GameObject, amount int) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindArmorBonus,
		Actor: actor,
		Extra: &Extra{Key: "amount", Value: amount},
	}, tic)
}

func OnEnteredSector(tic uint32, actor *GameObject, sector uint64) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindEnteredSector,
		Actor: actor,
		Extra: &Extra{Key: "sector", Value: sector},
	}, tic)
}

func OnEnteredSubsector(tic uint32, actor *GameObject, subsector uint64) {
	currentSystem().emit(EventDescriptor{
		Kind:  KindEnteredSubsector,
		Actor: actor,
		Extra: &Extra{Key: "subsector", Value: subsector},
	}, tic)
}
