package main

import "testing"

func TestRotationSteps(t *testing.T) {
	tests := []struct {
		deg  int
		want int
	}{
		{0, 0},
		{90, 1},
		{180, 2},
		{270, 3},
		{360, 0},
		{450, 1},
		{-90, 3},
		{-180, 2},
		{-360, 0},
	}
	for _, tt := range tests {
		got, err := rotationSteps(tt.deg)
		if err != nil {
			t.Errorf("rotationSteps(%d): %v", tt.deg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("rotationSteps(%d) = %d, want %d", tt.deg, got, tt.want)
		}
	}
}

func TestRotationStepsRejectsOffGrid(t *testing.T) {
	for _, deg := range []int{45, -30, 91} {
		if _, err := rotationSteps(deg); err == nil {
			t.Errorf("rotationSteps(%d) accepted", deg)
		}
	}
}
