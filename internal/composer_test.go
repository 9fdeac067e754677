package internal

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, b []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("record is not valid JSON: %v\nrecord: %s", err, b)
	}
	return m
}

func TestComposeStartLevel(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}

	desc := EventDescriptor{
		Kind:  KindStartLevel,
		Extra: &Extra{Key: "level", Value: 3},
	}
	rec, err := c.Compose(desc, 42, 1000, sess, false)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}

	m := mustDecode(t, rec)
	if m["type"] != "start_level" {
		t.Fatalf("type = %v, want start_level", m["type"])
	}
	if m["counter"] != float64(0) {
		t.Fatalf("counter = %v, want 0 (first record)", m["counter"])
	}
	if m["session"] != sess.ID() {
		t.Fatalf("session = %v, want %v", m["session"], sess.ID())
	}
	if m["level"] != float64(3) {
		t.Fatalf("level = %v, want 3", m["level"])
	}
	frame, ok := m["frame"].(map[string]any)
	if !ok {
		t.Fatalf("frame field missing or wrong shape: %v", m["frame"])
	}
	if frame["tic"] != float64(42) || frame["millis"] != float64(1000) {
		t.Fatalf("frame = %v, want tic=42 millis=1000", frame)
	}
}

func TestComposeKillWithActorAndTarget(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}

	actor := &GameObject{
		IsPlayer: true,
		Health:   80,
		Armor:    25,
		ID:       1,
		Position: Position{X: 1, Y: 2, Z: 0, Angle: 90, Subsector: 7},
	}
	target := &GameObject{
		IsPlayer: false,
		Kind:     MTImp,
		Health:   0,
		ID:       2,
		Position: Position{X: 5, Y: 6, Z: 0, Angle: 0, Subsector: 9},
	}

	rec, err := c.Compose(EventDescriptor{Kind: KindKilled, Actor: actor, Target: target}, 1, 0, sess, false)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	m := mustDecode(t, rec)

	a, ok := m["actor"].(map[string]any)
	if !ok {
		t.Fatalf("actor missing: %v", m)
	}
	if a["type"] != "player" {
		t.Fatalf("actor.type = %v, want player", a["type"])
	}
	if _, hasArmor := a["armor"]; !hasArmor {
		t.Fatalf("actor missing armor field for player")
	}

	tgt, ok := m["target"].(map[string]any)
	if !ok {
		t.Fatalf("target missing: %v", m)
	}
	if tgt["type"] != "imp" {
		t.Fatalf("target.type = %v, want imp", tgt["type"])
	}
	if _, hasArmor := tgt["armor"]; hasArmor {
		t.Fatalf("non-player target should not carry an armor field")
	}
}

func TestComposeHitCarriesDamageExtra(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}

	actor := &GameObject{IsPlayer: true, Health: 90, Armor: 0, ID: 1}
	target := &GameObject{Kind: MTDemon, Health: 40, ID: 3}

	rec, err := c.Compose(EventDescriptor{
		Kind:   KindHit,
		Actor:  actor,
		Target: target,
		Extra:  &Extra{Key: "damage", Value: 15},
	}, 10, 10, sess, false)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	m := mustDecode(t, rec)
	if m["damage"] != float64(15) {
		t.Fatalf("damage = %v, want 15", m["damage"])
	}
}

func TestComposeUnknownEnemyFallsBack(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}

	target := &GameObject{Kind: EngineMobjType(999), Health: 0, ID: 5}
	rec, err := c.Compose(EventDescriptor{Kind: KindKilled, Target: target}, 0, 0, sess, false)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	m := mustDecode(t, rec)
	tgt := m["target"].(map[string]any)
	if tgt["type"] != "unknown_enemy" {
		t.Fatalf("target.type = %v, want unknown_enemy", tgt["type"])
	}
}

func TestComposeAppendsNewlineWhenRequested(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	rec, err := c.Compose(EventDescriptor{Kind: KindMove}, 0, 0, sess, true)
	if err != nil {
		t.Fatalf("Compose() = %v", err)
	}
	if !strings.HasSuffix(string(rec), "\n") {
		t.Fatalf("record does not end with newline: %q", rec)
	}
	// The JSON document itself (sans terminator) must still decode cleanly.
	mustDecode(t, rec[:len(rec)-1])
}

func TestComposeRejectsOversizeRecord(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	big := strings.Repeat("x", maxRecordBytes*2)
	_, err = c.Compose(EventDescriptor{
		Kind:  KindMove,
		Extra: &Extra{Key: "blob", Value: big},
	}, 0, 0, sess, false)
	if err != ErrRecordOverflow {
		t.Fatalf("Compose() = %v, want ErrRecordOverflow", err)
	}
}

func TestComposeSequenceAdvancesAcrossCalls(t *testing.T) {
	c := NewComposer()
	sess, err := NewSession()
	if err != nil {
		t.Fatalf("NewSession() = %v", err)
	}
	first, _ := c.Compose(EventDescriptor{Kind: KindMove}, 0, 0, sess, false)
	m1 := mustDecode(t, first)
	second, _ := c.Compose(EventDescriptor{Kind: KindMove}, 1, 0, sess, false)
	m2 := mustDecode(t, second)
	if m2["counter"].(float64) != m1["counter"].(float64)+1 {
		t.Fatalf("counter did not advance: %v -> %v", m1["counter"], m2["counter"])
	}
}
