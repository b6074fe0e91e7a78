package risk

import "testing"

func TestStakeBasic(t *testing.T) {
	qty := Stake(10_000, 0.1, 40_000) // 1000 / 40000
	if qty != 0.025 {
		t.Fatalf("unexpected qty: %v", qty)
	}
}

func TestStakeFloorsToPrecision(t *testing.T) {
	qty := Stake(1000, 0.1, 3) // 33.333333...
	if qty != 33.333333 {
		t.Fatalf("expected 33.333333, got %v", qty)
	}
	if qty*3 > 100 {
		t.Fatalf("cost %v exceeds the stake", qty*3)
	}
}

func TestStakeInvalidInputs(t *testing.T) {
	cases := [][3]float64{
		{0, 0.1, 100},
		{1000, 0, 100},
		{1000, 0.1, 0},
		{-5, 0.1, 100},
	}
	for _, c := range cases {
		if qty := Stake(c[0], c[1], c[2]); qty != 0 {
			t.Fatalf("Stake(%v) = %v, want 0", c, qty)
		}
	}
}

func TestStakeCapsFraction(t *testing.T) {
	if qty := Stake(100, 5, 10); qty != 10 {
		t.Fatalf("fraction above 1 must commit all equity, got %v", qty)
	}
}

func TestByStopDistance(t *testing.T) {
	qty := ByStopDistance(10_000, 0.01, 0.015, 100) // risk $100, SL $1.5 => 66.666666
	if qty != 66.666666 {
		t.Fatalf("unexpected qty: %v", qty)
	}
	if qty := ByStopDistance(10_000, 0.01, -0.05, 100); qty != 20 {
		t.Fatalf("negative stop fractions use their magnitude, got %v", qty)
	}
	if qty := ByStopDistance(10_000, 0.01, 0, 100); qty != 0 {
		t.Fatalf("zero stop distance must size 0, got %v", qty)
	}
}
