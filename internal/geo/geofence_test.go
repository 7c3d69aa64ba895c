package geo

import "testing"

func TestInScope(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{"delhi", 28.6, 77.2, true},
		{"mumbai", 19.08, 72.88, true},
		{"port blair islands", 11.62, 92.73, true},
		{"london", 51.5, -0.12, false},
		{"tokyo", 35.68, 139.65, false},
		{"sydney", -33.87, 151.21, false},
		{"northern border edge", 37.5, 77.0, true},
		{"just past northern edge", 37.6, 77.0, false},
		{"western border edge", 20.0, 67.0, true},
		{"just past western edge", 20.0, 66.9, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InScope(tt.lat, tt.lng); got != tt.want {
				t.Errorf("InScope(%v, %v) = %v, want %v", tt.lat, tt.lng, got, tt.want)
			}
		})
	}
}

func TestBoundingBoxContains(t *testing.T) {
	box := BoundingBox{MinLat: 10, MaxLat: 20, MinLng: 30, MaxLng: 40}

	if !box.Contains(15, 35) {
		t.Error("expected interior point to be contained")
	}
	if !box.Contains(10, 30) {
		t.Error("expected corner point to be contained")
	}
	if box.Contains(9.99, 35) {
		t.Error("expected point below MinLat to be outside")
	}
	if box.Contains(15, 40.01) {
		t.Error("expected point past MaxLng to be outside")
	}
}
