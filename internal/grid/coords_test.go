package grid

import "testing"

func TestCoordKeyRoundTrip(t *testing.T) {
	coords := []Coord{
		C(1, 1),
		C(3, 2),
		C(10, 10),
		C(128, 1),
	}
	for _, c := range coords {
		got, err := ParseKey(c.Key())
		if err != nil {
			t.Fatalf("ParseKey(%q) returned error: %v", c.Key(), err)
		}
		if !got.Equal(c) {
			t.Errorf("ParseKey(Key(%v)) = %v, want %v", c, got, c)
		}
	}
}

func TestParseKeyInvalid(t *testing.T) {
	for _, key := range []string{"", "3", "a,b", "3;2"} {
		if _, err := ParseKey(key); err == nil {
			t.Errorf("ParseKey(%q) expected error, got nil", key)
		}
	}
}

func TestStepDoesNotClamp(t *testing.T) {
	tests := []struct {
		name string
		from Coord
		dir  Direction
		want Coord
	}{
		{"up from top row", C(1, 1), Up, C(1, 0)},
		{"left from first column", C(1, 1), Left, C(0, 1)},
		{"right", C(2, 3), Right, C(3, 3)},
		{"down", C(2, 3), Down, C(2, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.Step(tt.dir); !got.Equal(tt.want) {
				t.Errorf("Step(%v, %v) = %v, want %v", tt.from, tt.dir, got, tt.want)
			}
		})
	}
}

func TestInBounds(t *testing.T) {
	cfg := GridConfig{Columns: 4, Rows: 3}
	tests := []struct {
		c    Coord
		want bool
	}{
		{C(1, 1), true},
		{C(4, 3), true},
		{C(0, 1), false},
		{C(1, 0), false},
		{C(5, 1), false},
		{C(1, 4), false},
	}
	for _, tt := range tests {
		if got := tt.c.InBounds(cfg); got != tt.want {
			t.Errorf("InBounds(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestAllCoordsRowMajor(t *testing.T) {
	cfg := GridConfig{Columns: 3, Rows: 2}
	want := []Coord{
		C(1, 1), C(2, 1), C(3, 1),
		C(1, 2), C(2, 2), C(3, 2),
	}
	got := AllCoords(cfg)
	if len(got) != len(want) {
		t.Fatalf("AllCoords returned %d coords, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("AllCoords[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestManhattan(t *testing.T) {
	tests := []struct {
		a, b Coord
		want int
	}{
		{C(1, 1), C(1, 1), 0},
		{C(1, 1), C(4, 1), 3},
		{C(2, 5), C(4, 1), 6},
		{C(4, 1), C(2, 5), 6},
	}
	for _, tt := range tests {
		if got := tt.a.Manhattan(tt.b); got != tt.want {
			t.Errorf("Manhattan(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
