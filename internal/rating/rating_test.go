package rating

import (
	"math"
	"testing"
)

func TestExpectedScore_EqualRatingsIsHalf(t *testing.T) {
	for _, r := range []int{0, 800, 1200, 1500, 2400} {
		if got := ExpectedScore(r, r); got != 0.5 {
			t.Fatalf("ExpectedScore(%d,%d) = %v, want 0.5", r, r, got)
		}
	}
}

func TestExpectedScore_MonotonicallyDecreasingInGap(t *testing.T) {
	prev := 1.0
	for gap := -800; gap <= 800; gap += 50 {
		got := ExpectedScore(1200, 1200+gap)
		if got >= prev {
			t.Fatalf("ExpectedScore not decreasing at gap %d: %v >= %v", gap, got, prev)
		}
		prev = got
	}
}

func TestDelta_ZeroSumUpToRounding(t *testing.T) {
	cases := []struct {
		a, b int
		won  bool
	}{
		{1200, 1200, true},
		{1200, 1200, false},
		{1500, 1100, true},
		{1500, 1100, false},
		{900, 1700, true},
		{1000, 1003, false},
	}
	for _, c := range cases {
		da := Delta(c.a, c.b, c.won)
		db := Delta(c.b, c.a, !c.won)
		if drift := math.Abs(float64(da + db)); drift > 1 {
			t.Fatalf("Delta(%d,%d,%v)=%d and Delta(%d,%d,%v)=%d drift by %v",
				c.a, c.b, c.won, da, c.b, c.a, !c.won, db, drift)
		}
	}
}

func TestDelta_UpsetPaysMore(t *testing.T) {
	underdog := Delta(1000, 1600, true)
	favorite := Delta(1600, 1000, true)
	if underdog <= favorite {
		t.Fatalf("expected underdog win (%d) to pay more than favorite win (%d)", underdog, favorite)
	}
}
