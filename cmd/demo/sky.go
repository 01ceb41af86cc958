package main

import (
	"time"

	"frameloop/core"
)

// dayLength is the time for a full noon to noon cycle.
const dayLength = 40 * time.Second

// skyPalette holds the horizon color at noon, sunset, dusk and midnight.
var skyPalette = []core.Color{
	{R: 0.58, G: 0.75, B: 0.95, A: 1},
	{R: 0.90, G: 0.52, B: 0.18, A: 1},
	{R: 0.50, G: 0.22, B: 0.28, A: 1},
	{R: 0.04, G: 0.04, B: 0.08, A: 1},
}

// skyColor returns the clear color elapsed into the day cycle.
func skyColor(elapsed time.Duration) core.Color {
	phase := float64(elapsed%dayLength) / float64(dayLength)
	return core.Cycle(skyPalette, phase*float64(len(skyPalette)))
}
