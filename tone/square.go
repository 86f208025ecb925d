// Package tone synthesizes the buzzer: a square wave gated by the sound
// timer, either streamed to an audio player or recorded to a WAV file.
package tone

import (
	"encoding/binary"
	"math"
	"sync/atomic"
)

const (
	SAMPLE_RATE = 44100 // Hz
	FREQUENCY   = 440   // Hz
	VOLUME      = 0.05  // Fraction of full scale.
)

// Square is an endless square wave. It is silent unless the tone gate is on.
// SetTone may be called from any goroutine; Read and Next belong to a single
// consumer.
type Square struct {
	SampleRate int     // Samples per second.
	Frequency  float64 // Tone frequency, Hz.
	Volume     float64 // Amplitude, 0.0 to 1.0.

	on    atomic.Bool
	phase float64
}

// NewSquare returns the default buzzer at the given sample rate.
func NewSquare(sampleRate int) *Square {
	return &Square{
		SampleRate: sampleRate,
		Frequency:  FREQUENCY,
		Volume:     VOLUME,
	}
}

// SetTone opens or closes the gate.
func (sq *Square) SetTone(on bool) {
	sq.on.Store(on)
}

// Tone reports the gate state.
func (sq *Square) Tone() bool {
	return sq.on.Load()
}

// Next returns the next mono sample.
func (sq *Square) Next() (sample int16) {
	if !sq.on.Load() {
		sq.phase = 0
		return
	}

	amplitude := int16(sq.Volume * math.MaxInt16)
	if sq.phase < 0.5 {
		sample = amplitude
	} else {
		sample = -amplitude
	}

	sq.phase += sq.Frequency / float64(sq.SampleRate)
	for sq.phase >= 1.0 {
		sq.phase -= 1.0
	}

	return
}

// Read fills p with 16-bit signed little-endian stereo frames. The stream
// never ends.
func (sq *Square) Read(p []byte) (n int, err error) {
	frames := len(p) / 4
	for i := range frames {
		sample := uint16(sq.Next())
		binary.LittleEndian.PutUint16(p[i*4:], sample)
		binary.LittleEndian.PutUint16(p[i*4+2:], sample)
	}

	n = frames * 4
	return
}
