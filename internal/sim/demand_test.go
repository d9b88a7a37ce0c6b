package sim

import (
	"slices"
	"testing"
)

func TestGenerateBootstrap(t *testing.T) {
	g := NewGenerator(42)
	history := []int{100, 110, 90}

	for i := 0; i < 200; i++ {
		d, err := g.Generate(history, DemandBootstrap)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Contains(history, d) {
			t.Fatalf("bootstrap drew %d, not in history %v", d, history)
		}
	}
}

func TestGenerateBootstrapDoesNotMutateHistory(t *testing.T) {
	g := NewGenerator(1)
	history := []int{450, 520, 480, 600}
	want := slices.Clone(history)

	for i := 0; i < 50; i++ {
		if _, err := g.Generate(history, DemandBootstrap); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if !slices.Equal(history, want) {
		t.Errorf("history mutated: %v != %v", history, want)
	}
}

func TestGenerateNormal(t *testing.T) {
	g := NewGenerator(7)
	history := []int{450, 520, 480, 600, 550, 530, 490}

	for i := 0; i < 500; i++ {
		d, err := g.Generate(history, DemandNormal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d < 0 {
			t.Fatalf("normal draw produced negative demand %d", d)
		}
	}
}

func TestGenerateNormalSinglePoint(t *testing.T) {
	// With fewer than two points the stdev is zero, so every draw is
	// the (rounded) mean.
	g := NewGenerator(3)

	for i := 0; i < 20; i++ {
		d, err := g.Generate([]int{130}, DemandNormal)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if d != 130 {
			t.Fatalf("expected degenerate draw 130, got %d", d)
		}
	}
}

func TestGenerateEmptyHistory(t *testing.T) {
	g := NewGenerator(0)

	for _, method := range []DemandMethod{DemandBootstrap, DemandNormal} {
		if _, err := g.Generate(nil, method); err != ErrInsufficientData {
			t.Errorf("%s: expected ErrInsufficientData, got %v", method, err)
		}
	}
}

func TestGenerateUnknownMethod(t *testing.T) {
	g := NewGenerator(0)
	if _, err := g.Generate([]int{1}, DemandMethod("poisson")); err == nil {
		t.Error("expected error for unknown method")
	}
}

func TestSampleStats(t *testing.T) {
	mean, stdev := sampleStats([]int{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(mean, 5) {
		t.Errorf("expected mean 5, got %v", mean)
	}
	// Sample stdev with n-1 divisor.
	if !almostEqual(stdev, 2.138089935299395) {
		t.Errorf("unexpected stdev %v", stdev)
	}
}
