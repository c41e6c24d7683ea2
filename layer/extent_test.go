package layer

import "testing"

func TestNewExtentValidation(t *testing.T) {
	if _, err := NewExtent(2, 0, 1, 5); err == nil {
		t.Error("NewExtent with xmin > xmax should fail")
	}
	if _, err := NewExtent(0, 5, 1, 2); err == nil {
		t.Error("NewExtent with ymin > ymax should fail")
	}
	if _, err := NewExtent(0, 0, 0, 0); err != nil {
		t.Errorf("degenerate extent should be valid, got %v", err)
	}
}

func TestExtentContains(t *testing.T) {
	e := Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 5}
	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"interior", 5, 2, true},
		{"corner", 0, 0, true},
		{"edge", 10, 2, true},
		{"east of extent", 11, 2, false},
		{"south of extent", 5, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%g, %g) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestExtentIntersection(t *testing.T) {
	a := Extent{XMin: 0, YMin: 0, XMax: 10, YMax: 10}
	b := Extent{XMin: 5, YMin: 5, XMax: 15, YMax: 15}
	c := Extent{XMin: 20, YMin: 20, XMax: 30, YMax: 30}

	got, ok := a.Intersection(b)
	if !ok {
		t.Fatal("overlapping extents should intersect")
	}
	want := Extent{XMin: 5, YMin: 5, XMax: 10, YMax: 10}
	if got != want {
		t.Errorf("Intersection = %v, want %v", got, want)
	}

	if _, ok := a.Intersection(c); ok {
		t.Error("disjoint extents should not intersect")
	}
	if !a.Intersects(b) || a.Intersects(c) {
		t.Error("Intersects disagrees with Intersection")
	}
}

func TestExtentUnion(t *testing.T) {
	a := Extent{XMin: 0, YMin: 0, XMax: 1, YMax: 1}
	b := Extent{XMin: 5, YMin: -2, XMax: 7, YMax: 0.5}
	want := Extent{XMin: 0, YMin: -2, XMax: 7, YMax: 1}
	if got := a.Union(b); got != want {
		t.Errorf("Union = %v, want %v", got, want)
	}
}
