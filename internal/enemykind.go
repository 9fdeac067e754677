package internal

import "log"

// EngineMobjType mirrors the game engine's raw enemy/projectile type enum
// (e.g. chocolate-doom's mobjtype_t). The telemetry core never interprets
// these values itself beyond mapping them to a label; the game is the
// authority on what each value means.
type EngineMobjType int

const (
	MTSoldier EngineMobjType = iota
	MTShotgunSoldier
	MTImp
	MTDemon
	MTSpectre
	MTVile
	MTUndead
	MTLostSoul
	MTCacodemon
	MTCacodemonFireball
	MTBaronOfHell
	MTBaronFireball
	MTImpFireball
	MTBarrel
	MTRocket
	MTPlasma
)

var enemyKindLabels = map[EngineMobjType]string{
	MTSoldier:           "soldier",
	MTShotgunSoldier:    "shotgun_soldier",
	MTImp:               "imp",
	MTDemon:             "demon",
	MTSpectre:           "spectre",
	MTVile:              "vile",
	MTUndead:            "undead",
	MTLostSoul:          "lost_soul",
	MTCacodemon:         "cacodemon",
	MTCacodemonFireball: "cacodemon_fireball",
	MTBaronOfHell:       "baron_of_hell",
	MTBaronFireball:     "baron_fireball",
	MTImpFireball:       "imp_fireball",
	MTBarrel:            "barrel",
	MTRocket:            "rocket",
	MTPlasma:            "plasma",
}

const unknownEnemyLabel = "unknown_enemy"

// enemyKindLabel implements the fixed closed mapping from engine enum to
// label. Unrecognized engine values log a warning and fall back to
// "unknown_enemy", matching original_source/src/doom/x_events.c's
// enemyTypeName default case.
func enemyKindLabel(t EngineMobjType) string {
	if label, ok := enemyKindLabels[t]; ok {
		return label
	}
	log.Printf("telemetry: unrecognized engine mobj type %d, emitting %q", t, unknownEnemyLabel)
	return unknownEnemyLabel
}
