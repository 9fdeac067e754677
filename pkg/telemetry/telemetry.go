// Package telemetry is the public facade a game engine links against. It
// re-exports the internal emission surface so callers never import
// telemetrycore/internal directly.
package telemetry

import "telemetrycore/internal"

type (
	Config         = internal.Config
	DatagramConfig = internal.DatagramConfig
	BrokerConfig   = internal.BrokerConfig
	WSConfig       = internal.WSConfig
	TransportMode  = internal.TransportMode
	SASLMechanism  = internal.SASLMechanism

	Position   = internal.Position
	GameObject = internal.GameObject
	Extra      = internal.Extra
)

const (
	ModeFile          = internal.ModeFile
	ModeDatagram      = internal.ModeDatagram
	ModeBroker        = internal.ModeBroker
	ModeFramedStream  = internal.ModeFramedStream
	ModePubSubOverlay = internal.ModePubSubOverlay
)

const (
	SASLPlain       = internal.SASLPlain
	SASLScramSHA256 = internal.SASLScramSHA256
	SASLScramSHA512 = internal.SASLScramSHA512
)

// LoadConfig reads and validates a telemetry configuration file.
func LoadConfig(path string) (*Config, error) {
	return internal.LoadConfig(path)
}

// Init starts the process-wide telemetry system. fatal is invoked for
// setup failures (entropy, transport connect/resolve/handshake); it may
// be nil, in which case the error is returned directly instead.
func Init(cfg *Config, fatal func(error)) error {
	return internal.InitTelemetry(cfg, fatal)
}

// Stop tears down the process-wide telemetry system.
func Stop() error {
	return internal.StopTelemetry()
}

// EnableMetrics turns on the hand-rolled Prometheus exposition endpoint's
// counters. This package does not start a /metrics server; the one in
// internal.StartMetricsServer is not re-exported here.
func EnableMetrics() {
	internal.EnablePrometheusMetrics()
}

func OnStartLevel(tic uint32, level int)      { internal.OnStartLevel(tic, level) }
func OnEndLevel(tic uint32, level int)        { internal.OnEndLevel(tic, level) }
func OnTargeted(tic uint32, actor, target *GameObject) {
	internal.OnTargeted(tic, actor, target)
}
func OnKill(tic uint32, actor, target *GameObject) { internal.OnKill(tic, actor, target) }
func OnPlayerDied(tic uint32, player, killer *GameObject) {
	internal.OnPlayerDied(tic, player, killer)
}
func OnAttack(tic uint32, actor, target *GameObject) {
	internal.OnAttack(tic, actor, target)
}
func OnCounterAttack(tic uint32, actor, target *GameObject) {
	internal.OnCounterAttack(tic, actor, target)
}
func OnHit(tic uint32, actor, target *GameObject, damage int) {
	internal.OnHit(tic, actor, target, damage)
}
func OnMove(tic uint32, actor *GameObject) { internal.OnMove(tic, actor) }
func OnPickupWeapon(tic uint32, actor *GameObject, weapon string) {
	internal.OnPickupWeapon(tic, actor, weapon)
}
func OnPickupHealth(tic uint32, actor *GameObject, amount int) {
	internal.OnPickupHealth(tic, actor, amount)
}
func OnPickupArmor(tic uint32, actor *GameObject, amount int) {
	internal.OnPickupArmor(tic, actor, amount)
}
func OnPickupCard(tic uint32, actor *GameObject, card string) {
	internal.OnPickupCard(tic, actor, card)
}
func OnHealthBonus(tic uint32, actor *GameObject, amount int) {
	internal.OnHealthBonus(tic, actor, amount)
}
func OnArmorBonus(tic uint32, actor *GameObject, amount int) {
	internal.OnArmorBonus(tic, actor, amount)
}
func OnEnteredSector(tic uint32, actor *GameObject, sector uint64) {
	internal.OnEnteredSector(tic, actor, sector)
}
func OnEnteredSubsector(tic uint32, actor *GameObject, subsector uint64) {
	internal.OnEnteredSubsector(tic, actor, subsector)
}
