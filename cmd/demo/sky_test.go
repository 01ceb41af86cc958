package main

import (
	"testing"
	"time"
)

func TestSkyColorWraps(t *testing.T) {
	if got, want := skyColor(0), skyPalette[0]; got != want {
		t.Fatalf("expected noon color %v; got %v", want, got)
	}
	if got, want := skyColor(dayLength), skyColor(0); got != want {
		t.Fatalf("expected a full day to wrap to %v; got %v", want, got)
	}

	quarter := dayLength / time.Duration(len(skyPalette))
	if got, want := skyColor(quarter), skyPalette[1]; got != want {
		t.Fatalf("expected sunset color %v; got %v", want, got)
	}
}
