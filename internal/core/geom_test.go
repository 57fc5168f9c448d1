package core

import "testing"

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 20, 15)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 15, 15, true},
		{"top-left corner", 10, 10, true},
		{"last cell", 29, 24, true},
		{"right edge is exclusive", 30, 15, false},
		{"bottom edge is exclusive", 15, 25, false},
		{"outside left", 5, 15, false},
		{"outside top", 15, 5, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Contains(tc.x, tc.y); got != tc.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tc.x, tc.y, got, tc.expected)
			}
		})
	}
}

func TestRectCentered(t *testing.T) {
	tests := []struct {
		name  string
		outer Rect
		w, h  int
		want  Rect
	}{
		{"even leftover", NewRect(0, 0, 80, 24), 40, 20, NewRect(20, 2, 40, 20)},
		{"odd leftover floors", NewRect(0, 0, 41, 20), 40, 19, NewRect(0, 0, 40, 19)},
		{"offset origin", NewRect(5, 5, 10, 10), 4, 4, NewRect(8, 8, 4, 4)},
		{"exact fit", NewRect(0, 0, 40, 19), 40, 19, NewRect(0, 0, 40, 19)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.outer.Centered(tc.w, tc.h); got != tc.want {
				t.Errorf("Centered(%d, %d) = %+v, expected %+v", tc.w, tc.h, got, tc.want)
			}
		})
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(2, 3, 22, 19).Inset(1)
	if r != NewRect(3, 4, 20, 17) {
		t.Errorf("Inset(1) = %+v", r)
	}

	if tiny := NewRect(0, 0, 1, 1).Inset(2); tiny.W != 0 || tiny.H != 0 {
		t.Errorf("Inset past the size should be empty, got %+v", tiny)
	}
}

func TestRuntimeConfigNormalized(t *testing.T) {
	cfg := RuntimeConfig{ScreenW: 100, TickRate: 0}.Normalized()
	if cfg.TickRate != DefaultTickRate {
		t.Errorf("TickRate = %d, expected %d", cfg.TickRate, DefaultTickRate)
	}
	if cfg.ScreenW != 100 {
		t.Error("Normalized should keep other fields")
	}

	if got := (RuntimeConfig{TickRate: 30}).Normalized().TickRate; got != 30 {
		t.Errorf("TickRate = %d, expected 30", got)
	}
}
