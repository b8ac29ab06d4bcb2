package game

import "testing"

func TestParseCardIDs(t *testing.T) {
	ids := ParseCardIDs(" 1,2, 5 ,,bogus,9")
	want := []uint{1, 2, 5, 9}
	if len(ids) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestJoinCardIDs_RoundTrip(t *testing.T) {
	in := []uint{3, 1, 4, 1, 5}
	out := ParseCardIDs(JoinCardIDs(in))
	if len(out) != len(in) {
		t.Fatalf("round trip changed length: %v -> %v", in, out)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("round trip changed order: %v -> %v", in, out)
		}
	}
}

func TestDeriveMaxHP(t *testing.T) {
	if got := DeriveMaxHP(1, 0); got != 48 {
		t.Fatalf("level 1, defense 0: expected 48, got %d", got)
	}
	if got := DeriveMaxHP(3, 5); got != 79 {
		t.Fatalf("level 3, defense 5: expected 79, got %d", got)
	}
	c := &Character{Level: 2, Defense: 4}
	if c.MaxHP() != DeriveMaxHP(2, 4) {
		t.Fatalf("character MaxHP must use the shared formula")
	}
}

func TestCardClone_IsDeep(t *testing.T) {
	orig := &Card{
		ID:   1,
		Name: "Test",
		Grant: &StatusGrant{
			Target: TargetSelf,
			Status: StatusDefinition{
				Name:     "S",
				Duration: 2,
				Hooks:    map[HookPoint]string{HookTurnStart: "heal(1)"},
			},
		},
	}
	cp := orig.Clone()
	cp.Grant.Status.Hooks[HookTurnEnd] = "damage(1)"
	if _, leaked := orig.Grant.Status.Hooks[HookTurnEnd]; leaked {
		t.Fatalf("clone hooks must not share the original map")
	}
}
