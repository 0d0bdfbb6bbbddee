package recommendations

import "testing"

func TestPickIndex(t *testing.T) {
	tc := []struct {
		name string
		draw float64
		n    int
		want int
	}{
		{name: "zero draw", draw: 0, n: 10, want: 0},
		{name: "middle", draw: 0.55, n: 10, want: 5},
		{name: "just below one", draw: 0.9999, n: 10, want: 9},
		{name: "one clamps", draw: 1, n: 10, want: 9},
		{name: "negative clamps", draw: -0.3, n: 10, want: 0},
		{name: "single element", draw: 0.8, n: 1, want: 0},
		{name: "empty", draw: 0.5, n: 0, want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := pickIndex(tt.draw, tt.n); got != tt.want {
				t.Errorf("pickIndex(%v, %d) = %d, want %d", tt.draw, tt.n, got, tt.want)
			}
		})
	}
}

func TestNewRandomSource(t *testing.T) {
	t.Run("seeded sources repeat", func(t *testing.T) {
		a, b := NewRandomSource(42), NewRandomSource(42)
		for range 5 {
			if x, y := a.Float64(), b.Float64(); x != y {
				t.Fatalf("seeded sources diverged: %v != %v", x, y)
			}
		}
	})

	t.Run("draws stay in range", func(t *testing.T) {
		for _, seed := range []uint64{0, 7} {
			src := NewRandomSource(seed)
			for range 100 {
				if d := src.Float64(); d < 0 || d >= 1 {
					t.Fatalf("draw %v out of [0, 1)", d)
				}
			}
		}
	})
}

func TestBucketFor(t *testing.T) {
	if b, f := bucketFor(0.69); b != HighBucket || !f.Match(11) || f.Match(10) {
		t.Errorf("0.69 should select the high bucket, got %s %s", b, f)
	}
	if b, f := bucketFor(0.7); b != LowBucket || !f.Match(10) || f.Match(11) {
		t.Errorf("0.7 should select the low bucket, got %s %s", b, f)
	}
}
