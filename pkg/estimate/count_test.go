package estimate

import (
	"math"
	"testing"
)

func TestCountFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		x       float64
		want    int64
		wantSat bool
	}{
		{"Zero", 0, 0, false},
		{"Negative", -3, 0, false},
		{"Small", 42, 42, false},
		{"BelowLimit", float64(1 << 62), 1 << 62, false},
		{"AtLimit", float64(1 << 63), MaxCount, true},
		{"Huge", 1.7e24, MaxCount, true},
		{"Inf", math.Inf(1), MaxCount, true},
		{"NaN", math.NaN(), MaxCount, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, sat := CountFromFloat(tt.x)
			if got != tt.want || sat != tt.wantSat {
				t.Errorf("CountFromFloat(%v) = (%d, %v), want (%d, %v)", tt.x, got, sat, tt.want, tt.wantSat)
			}
		})
	}
}

func TestAddCounts(t *testing.T) {
	tests := []struct {
		a, b    int64
		want    int64
		wantSat bool
	}{
		{1, 2, 3, false},
		{MaxCount - 1, 1, MaxCount, false},
		{MaxCount, 1, MaxCount, true},
		{MaxCount / 2, MaxCount, MaxCount, true},
	}
	for _, tt := range tests {
		got, sat := AddCounts(tt.a, tt.b)
		if got != tt.want || sat != tt.wantSat {
			t.Errorf("AddCounts(%d, %d) = (%d, %v), want (%d, %v)", tt.a, tt.b, got, sat, tt.want, tt.wantSat)
		}
	}
}

func TestMulCounts(t *testing.T) {
	tests := []struct {
		a, b    int64
		want    int64
		wantSat bool
	}{
		{0, MaxCount, 0, false},
		{6, 7, 42, false},
		{1 << 31, 1 << 31, 1 << 62, false},
		{1 << 32, 1 << 31, MaxCount, true},
		{MaxCount, 2, MaxCount, true},
	}
	for _, tt := range tests {
		got, sat := MulCounts(tt.a, tt.b)
		if got != tt.want || sat != tt.wantSat {
			t.Errorf("MulCounts(%d, %d) = (%d, %v), want (%d, %v)", tt.a, tt.b, got, sat, tt.want, tt.wantSat)
		}
	}
}

func TestEstimate_CompleteGraphSaturates(t *testing.T) {
	// K26 has about e * 24! (1.7e24) simple paths between two nodes.
	g := complete(26)
	est := New(&Options{PilotWalks: 200, SampleWalks: 2000}, NewRand(7))
	got, err := Estimate(est, g, 0, 1)
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if !got.Saturated || got.Count != MaxCount {
		t.Errorf("Estimate(K26) = %+v, want saturated count %d", got, int64(MaxCount))
	}
	if got.AvgLength <= 0 {
		t.Errorf("Estimate(K26).AvgLength = %v, want > 0", got.AvgLength)
	}
}
