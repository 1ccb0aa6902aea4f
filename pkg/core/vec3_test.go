package core

import (
	"math"
	"testing"
)

func TestVec3_Arithmetic(t *testing.T) {
	a := NewVec3(1, 2, 3)
	b := NewVec3(4, -5, 6)

	tests := []struct {
		name     string
		got      Vec3
		expected Vec3
	}{
		{"Add", a.Add(b), NewVec3(5, -3, 9)},
		{"Subtract", a.Subtract(b), NewVec3(-3, 7, -3)},
		{"Multiply", a.Multiply(2), NewVec3(2, 4, 6)},
		{"MultiplyVec", a.MultiplyVec(b), NewVec3(4, -10, 18)},
		{"Cross", NewVec3(1, 0, 0).Cross(NewVec3(0, 1, 0)), NewVec3(0, 0, 1)},
		{"Negate", a.Negate(), NewVec3(-1, -2, -3)},
		{"Clamp", NewVec3(-1, 0.5, 2).Clamp(0, 0.999), NewVec3(0, 0.5, 0.999)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.Equals(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if a.Dot(b) != 12 {
		t.Errorf("Expected dot product 12, got %f", a.Dot(b))
	}
	if a.LengthSquared() != 14 {
		t.Errorf("Expected length squared 14, got %f", a.LengthSquared())
	}
}

func TestVec3_Normalize(t *testing.T) {
	v := NewVec3(3, 4, 0).Normalize()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("Expected unit length, got %f", v.Length())
	}

	zero := NewVec3(0, 0, 0)
	if !zero.Normalize().Equals(zero) {
		t.Errorf("Normalizing a zero vector should be a no-op, got %v", zero.Normalize())
	}
}

func TestVec3_NearZero(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec3
		expected bool
	}{
		{"zero", NewVec3(0, 0, 0), true},
		{"tiny", NewVec3(1e-9, -1e-9, 5e-9), true},
		{"one component large", NewVec3(1e-9, 1e-3, 0), false},
		{"unit", NewVec3(0, 1, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.NearZero() != tt.expected {
				t.Errorf("NearZero(%v) = %t, expected %t", tt.v, tt.v.NearZero(), tt.expected)
			}
		})
	}
}

func TestVec3_IsFinite(t *testing.T) {
	if !NewVec3(1, 2, 3).IsFinite() {
		t.Error("Expected finite vector")
	}
	if NewVec3(math.NaN(), 0, 0).IsFinite() {
		t.Error("NaN component should not be finite")
	}
	if NewVec3(0, math.Inf(1), 0).IsFinite() {
		t.Error("Inf component should not be finite")
	}
}

func TestReflect(t *testing.T) {
	// Normal incidence reflects straight back
	n := NewVec3(0, 0, 1)
	v := NewVec3(0, 0, -1)
	if got := Reflect(v, n); !got.Equals(NewVec3(0, 0, 1)) {
		t.Errorf("Expected (0,0,1), got %v", got)
	}

	// 45 degree incidence keeps the tangential component
	v = NewVec3(1, 0, -1)
	if got := Reflect(v, n); !got.Equals(NewVec3(1, 0, 1)) {
		t.Errorf("Expected (1,0,1), got %v", got)
	}
}

func TestRefract_SnellsLaw(t *testing.T) {
	n := NewVec3(0, 1, 0)
	tests := []struct {
		name  string
		angle float64
		n1    float64
		n2    float64
	}{
		{"air to glass 30deg", math.Pi / 6, 1.0, 1.5},
		{"air to glass 60deg", math.Pi / 3, 1.0, 1.5},
		{"glass to air 20deg", math.Pi / 9, 1.5, 1.0},
		{"normal incidence", 0, 1.0, 1.33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uv := NewVec3(math.Sin(tt.angle), -math.Cos(tt.angle), 0)
			refracted := Refract(uv, n, tt.n1/tt.n2)

			if math.Abs(refracted.Length()-1) > 1e-9 {
				t.Errorf("Refracted direction should stay unit length, got %f", refracted.Length())
			}

			sinOut := math.Sqrt(refracted.X*refracted.X + refracted.Z*refracted.Z)
			if math.Abs(math.Sin(tt.angle)*tt.n1-sinOut*tt.n2) > 1e-9 {
				t.Errorf("Snell's law violated: %f*%f != %f*%f", math.Sin(tt.angle), tt.n1, sinOut, tt.n2)
			}
			if refracted.Y >= 0 {
				t.Errorf("Refracted ray should continue through the surface, got %v", refracted)
			}
		})
	}
}

func TestRay_At(t *testing.T) {
	r := NewRay(NewVec3(1, 1, 1), NewVec3(0, 2, 0))
	if got := r.At(1.5); !got.Equals(NewVec3(1, 4, 1)) {
		t.Errorf("Expected (1,4,1), got %v", got)
	}
}
