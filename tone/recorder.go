package tone

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	BIT_DEPTH   = 16
	WAV_PCM     = 1 // WAV audio format tag for integer PCM.
	WAV_CHANNEL = 1
)

// Recorder captures the buzzer as mono PCM, one loop's worth of samples per
// SetTone call. The data is kept in memory until saved.
type Recorder struct {
	Verbose bool

	square         *Square
	loopsPerSecond int
	acc            int
	buffer         *audio.IntBuffer
}

// NewRecorder creates a recorder for a machine running loopsPerSecond
// iterations per second.
func NewRecorder(sampleRate, loopsPerSecond int) *Recorder {
	return &Recorder{
		square:         NewSquare(sampleRate),
		loopsPerSecond: loopsPerSecond,
		buffer: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: WAV_CHANNEL,
				SampleRate:  sampleRate,
			},
			SourceBitDepth: BIT_DEPTH,
		},
	}
}

// SetTone appends one loop of samples with the gate set to on. The sample
// remainder is carried so the long-run sample count is exact.
func (rec *Recorder) SetTone(on bool) {
	rec.square.SetTone(on)

	rec.acc += rec.square.SampleRate
	count := rec.acc / rec.loopsPerSecond
	rec.acc %= rec.loopsPerSecond

	for range count {
		rec.buffer.Data = append(rec.buffer.Data, int(rec.square.Next()))
	}
}

// Samples returns the recorded samples.
func (rec *Recorder) Samples() []int {
	return rec.buffer.Data
}

// Duration of the recording.
func (rec *Recorder) Duration() time.Duration {
	return time.Duration(len(rec.buffer.Data)) * time.Second / time.Duration(rec.square.SampleRate)
}

// Save writes the recording as a 16-bit mono PCM WAV file.
func (rec *Recorder) Save(ws io.WriteSeeker) (err error) {
	enc := wav.NewEncoder(ws, rec.square.SampleRate, BIT_DEPTH, WAV_CHANNEL, WAV_PCM)

	err = enc.Write(rec.buffer)
	if err != nil {
		return
	}

	err = enc.Close()
	if err != nil {
		return
	}

	if rec.Verbose {
		log.Printf("tone: saved %v of audio", rec.Duration())
	}

	return
}

// SaveFile writes the recording to path.
func (rec *Recorder) SaveFile(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return
	}
	defer func() {
		cerr := file.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("tone: %w", cerr)
		}
	}()

	err = rec.Save(file)
	return
}
