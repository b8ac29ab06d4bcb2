package script

import (
	"errors"
	"math/rand"
	"testing"
	"time"
)

func testContext() *Context {
	rng := rand.New(rand.NewSource(1))
	return &Context{
		Custom:      make(map[string]float64),
		CustomLists: make(map[string][]float64),
		Rand:        func(max float64) float64 { return rng.Float64() * max },
	}
}

func mustCompile(t *testing.T, src string) *Program {
	t.Helper()
	p, err := Compile(src)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return p
}

func TestCompile_EmptySourceFails(t *testing.T) {
	for _, src := range []string{"", "   ", "\n\n", "# only a comment\n"} {
		if _, err := Compile(src); err == nil {
			t.Fatalf("expected compile error for %q", src)
		} else {
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("expected CompileError, got %T", err)
			}
		}
	}
}

func TestCompile_SyntaxErrors(t *testing.T) {
	cases := []string{
		"amount = ",
		"if amount > { }",
		"damage(1",
		"bogus_op(1)",
		"caster.hp = 3",
		"amount = caster.unknown_field",
		"damage(1, 2)",
		"damage(1.2.3)",
		"amount = 1..5",
	}
	for _, src := range cases {
		if _, err := Compile(src); err == nil {
			t.Fatalf("expected compile error for %q", src)
		}
	}
}

func TestCompile_CachesBySourceText(t *testing.T) {
	src := "amount = amount + 7"
	p1 := mustCompile(t, src)
	p2 := mustCompile(t, src)
	if p1 != p2 {
		t.Fatalf("expected identical program pointer from cache")
	}
}

func TestRun_ArithmeticAndAssignment(t *testing.T) {
	env := testContext()
	env.Amount = 10
	p := mustCompile(t, "amount = amount * 2 + 5")
	if err := Run(p, env, Options{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if env.Amount != 25 {
		t.Fatalf("expected amount=25, got %v", env.Amount)
	}
}

func TestRun_ConditionalsAndCustomState(t *testing.T) {
	env := testContext()
	env.Round = 3
	p := mustCompile(t, `
if round >= 3 {
  custom.stacks += 2
} else {
  custom.stacks += 1
}
amount = custom.stacks
`)
	if err := Run(p, env, Options{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if env.Custom["stacks"] != 2 || env.Amount != 2 {
		t.Fatalf("expected stacks=2 amount=2, got stacks=%v amount=%v", env.Custom["stacks"], env.Amount)
	}
}

func TestRun_BuiltinsCallThroughContext(t *testing.T) {
	env := testContext()
	var dealt float64
	var raw bool
	var healed float64
	var drawn int
	env.DealDamage = func(n float64, r bool) error { dealt = n; raw = r; return nil }
	env.Heal = func(n float64) error { healed = n; return nil }
	env.Draw = func(n int) error { drawn = n; return nil }

	p := mustCompile(t, "raw_damage(12); heal(4); draw(2)")
	if err := Run(p, env, Options{}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if dealt != 12 || !raw {
		t.Fatalf("expected raw damage 12, got %v raw=%v", dealt, raw)
	}
	if healed != 4 || drawn != 2 {
		t.Fatalf("expected heal=4 draw=2, got heal=%v draw=%v", healed, drawn)
	}
}

func TestRun_MissingCallbackIsExecError(t *testing.T) {
	env := testContext()
	p := mustCompile(t, "damage(5)")
	err := Run(p, env, Options{})
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExecError, got %v", err)
	}
}

func TestRun_DivisionByZeroIsExecError(t *testing.T) {
	env := testContext()
	p := mustCompile(t, "amount = 1 / 0")
	err := Run(p, env, Options{})
	var ee *ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("expected ExecError, got %v", err)
	}
}

func TestRun_TimeoutFiresOnLongLoop(t *testing.T) {
	env := testContext()
	p := mustCompile(t, "repeat 1000000000 { amount += 1 }")
	err := Run(p, env, Options{Timeout: 20 * time.Millisecond})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestRun_MemoryLimitFiresOnAllocation(t *testing.T) {
	env := testContext()
	p := mustCompile(t, `repeat 100000000 { append("x", 1) }`)
	err := Run(p, env, Options{
		Timeout:        5 * time.Second,
		MemoryLimit:    1 << 20, // 1 MB
		SampleInterval: time.Millisecond,
	})
	var me *MemoryLimitError
	if !errors.As(err, &me) {
		t.Fatalf("expected MemoryLimitError, got %v", err)
	}
}

func TestRun_RandIsDeterministicPerSeed(t *testing.T) {
	p := mustCompile(t, "amount = rand(100)")
	run := func() float64 {
		rng := rand.New(rand.NewSource(42))
		env := testContext()
		env.Rand = func(max float64) float64 { return rng.Float64() * max }
		if err := Run(p, env, Options{}); err != nil {
			t.Fatalf("run failed: %v", err)
		}
		return env.Amount
	}
	if a, b := run(), run(); a != b {
		t.Fatalf("expected deterministic rand, got %v and %v", a, b)
	}
}

func TestRun_StackingCounterAcrossInvocations(t *testing.T) {
	env := testContext()
	p := mustCompile(t, "custom.hits += 1; amount = custom.hits")
	for i := 1; i <= 3; i++ {
		if err := Run(p, env, Options{}); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
		if env.Amount != float64(i) {
			t.Fatalf("expected amount=%d after %d runs, got %v", i, i, env.Amount)
		}
	}
}
