package core

import "testing"

func TestRectIntersects(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		expected bool
	}{
		{
			name:     "overlapping rects",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 5, 10, 10),
			expected: true,
		},
		{
			name:     "non-overlapping horizontal",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(15, 0, 10, 10),
			expected: false,
		},
		{
			name:     "non-overlapping vertical",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(0, 15, 10, 10),
			expected: false,
		},
		{
			name:     "adjacent edges (no overlap)",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: false,
		},
		{
			name:     "contained rect",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			expected: true,
		},
		{
			name:     "sub-unit overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(9.5, 9.5, 10, 10),
			expected: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.a.Intersects(tc.b)
			if result != tc.expected {
				t.Errorf("Intersects() = %v, expected %v", result, tc.expected)
			}
			// Intersection is symmetric.
			if tc.b.Intersects(tc.a) != tc.expected {
				t.Errorf("Intersects() not symmetric for %v, %v", tc.a, tc.b)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Rect
		want     Rect
		overlaps bool
	}{
		{
			name:     "partial overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(6, 4, 10, 10),
			want:     NewRect(6, 4, 4, 6),
			overlaps: true,
		},
		{
			name:     "contained",
			a:        NewRect(0, 0, 20, 20),
			b:        NewRect(5, 5, 5, 5),
			want:     NewRect(5, 5, 5, 5),
			overlaps: true,
		},
		{
			name:     "disjoint",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(20, 20, 5, 5),
			overlaps: false,
		},
		{
			name:     "touching edges",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			overlaps: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Overlap(tc.a, tc.b)
			if ok != tc.overlaps {
				t.Fatalf("Overlap() ok = %v, expected %v", ok, tc.overlaps)
			}
			if ok && got != tc.want {
				t.Errorf("Overlap() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	if !r.Contains(Vec{12, 12}) {
		t.Errorf("Contains(12, 12) = false, expected true")
	}
	if !r.Contains(Vec{10, 10}) {
		t.Errorf("Contains(top-left corner) = false, expected true")
	}
	if r.Contains(Vec{15, 12}) {
		t.Errorf("Contains(right edge) = true, expected false")
	}
	if r.Contains(Vec{9, 12}) {
		t.Errorf("Contains(outside) = true, expected false")
	}
}

func TestRectCenterAndTranslate(t *testing.T) {
	r := NewRect(0, 0, 10, 4)

	if c := r.Center(); c != (Vec{5, 2}) {
		t.Errorf("Center() = %v, expected (5, 2)", c)
	}

	moved := r.Translate(Vec{3, -1})
	if moved.X != 3 || moved.Y != -1 || moved.W != 10 || moved.H != 4 {
		t.Errorf("Translate() = %+v, expected {3 -1 10 4}", moved)
	}
	if r.X != 0 || r.Y != 0 {
		t.Errorf("Translate() mutated the receiver: %+v", r)
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		name          string
		val, min, max float64
		expected      float64
	}{
		{"below range", -5, 0, 10, 0},
		{"above range", 15, 0, 10, 10},
		{"inside range", 5, 0, 10, 5},
		{"at min", 0, 0, 10, 0},
		{"at max", 10, 0, 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClampF(tc.val, tc.min, tc.max); got != tc.expected {
				t.Errorf("ClampF(%v, %v, %v) = %v, expected %v", tc.val, tc.min, tc.max, got, tc.expected)
			}
		})
	}
}
