package reader

import (
	"fmt"
	"math"
)

// Seekable is anything that can report a playback position in seconds
type Seekable interface {
	CurrentPosition() float64
}

// Position is a fixed playback position in seconds
type Position float64

func (p Position) CurrentPosition() float64 {
	return float64(p)
}

// FormatTime renders seconds as m:ss. Invalid or negative input is 0:00.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// SeekTo converts a percentage of duration into a position in seconds
func SeekTo(percent, duration float64) float64 {
	if !validDuration(duration) || math.IsNaN(percent) {
		return 0
	}
	percent = math.Max(0, math.Min(100, percent))
	return duration * percent / 100
}

// PlaybackPercent returns how far position is through duration, from 0 to 100
func PlaybackPercent(position, duration float64) float64 {
	if !validDuration(duration) || math.IsNaN(position) {
		return 0
	}
	return math.Max(0, math.Min(100, position/duration*100))
}

func validDuration(d float64) bool {
	return d > 0 && !math.IsNaN(d) && !math.IsInf(d, 0)
}
