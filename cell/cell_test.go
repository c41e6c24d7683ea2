package cell

import (
	"math"
	"testing"
)

func TestTypeStringRoundTrip(t *testing.T) {
	types := []Type{Bit, Int8, UInt8, Int16, UInt16, Int32, Float32, Float64}
	for _, typ := range types {
		t.Run(typ.String(), func(t *testing.T) {
			parsed, err := ParseType(typ.String())
			if err != nil {
				t.Fatalf("ParseType(%q) error = %v", typ.String(), err)
			}
			if parsed != typ {
				t.Errorf("ParseType(%q) = %v, want %v", typ.String(), parsed, typ)
			}
		})
	}

	if _, err := ParseType("complex128"); err == nil {
		t.Error("ParseType of unknown type name should fail")
	}
}

func TestTypeNoData(t *testing.T) {
	tests := []struct {
		typ  Type
		want float64
	}{
		{Int8, math.MinInt8},
		{UInt8, math.MaxUint8},
		{Int16, math.MinInt16},
		{UInt16, math.MaxUint16},
		{Int32, math.MinInt32},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := tt.typ.NoData(); got != tt.want {
				t.Errorf("NoData() = %g, want %g", got, tt.want)
			}
			if !tt.typ.IsNoData(tt.want) {
				t.Errorf("IsNoData(%g) = false, want true", tt.want)
			}
			if tt.typ.IsNoData(0) {
				t.Error("IsNoData(0) = true, want false")
			}
		})
	}

	for _, typ := range []Type{Float32, Float64} {
		if !math.IsNaN(typ.NoData()) {
			t.Errorf("%s NoData should be NaN", typ)
		}
		if !typ.IsNoData(math.NaN()) {
			t.Errorf("%s IsNoData(NaN) = false, want true", typ)
		}
		if typ.IsNoData(0) {
			t.Errorf("%s IsNoData(0) = true, want false", typ)
		}
	}

	if Bit.HasNoData() {
		t.Error("Bit should have no no-data sentinel")
	}
	if Bit.IsNoData(0) || Bit.IsNoData(1) {
		t.Error("no bit value should be no-data")
	}
}

func TestTypeConversion(t *testing.T) {
	tests := []struct {
		name   string
		typ    Type
		in     float64
		want   float64
		nodata bool
	}{
		{"int truncates fraction", Int32, 3.9, 3, false},
		{"negative truncates toward zero", Int16, -2.7, -2, false},
		{"NaN becomes int sentinel", Int8, math.NaN(), 0, true},
		{"bit clamps nonzero to one", Bit, 42, 1, false},
		{"bit keeps zero", Bit, 0, 0, false},
		{"bit clamps NaN to zero", Bit, math.NaN(), 0, false},
		{"float32 narrows", Float32, 1.1, float64(float32(1.1)), false},
		{"overflow saturates high", Int16, 60000, math.MaxInt16, false},
		{"overflow saturates low", Int16, -60000, math.MinInt16 + 1, false},
		{"unsigned overflow stops short of sentinel", UInt8, 300, math.MaxUint8 - 1, false},
		{"unsigned clamps negative to zero", UInt8, -3, 0, false},
		{"underflow cannot land on the sentinel", Int16, -32768.9, math.MinInt16 + 1, false},
		{"explicit sentinel is preserved", Int16, math.MinInt16, math.MinInt16, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile, err := NewTile(tt.typ, 1, 1, []float64{tt.in})
			if err != nil {
				t.Fatalf("NewTile() error = %v", err)
			}
			got, err := tile.At(0, 0)
			if err != nil {
				t.Fatalf("At() error = %v", err)
			}
			if tt.nodata {
				if !tile.IsNoData(got) {
					t.Errorf("At(0,0) = %g, want no-data", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("At(0,0) = %g, want %g", got, tt.want)
			}
		})
	}
}
