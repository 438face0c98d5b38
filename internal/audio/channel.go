package audio

import "math"

// channel is one playing voice.
type channel struct {
	freq      float64
	volume    float64
	phase     float64
	remaining int // Frames left to play
}

func newToneChannel(freq, seconds, volume float64, sampleRate int) *channel {
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	frames := int(seconds * float64(sampleRate))
	if frames < 0 {
		frames = 0
	}
	return &channel{freq: freq, volume: volume, remaining: frames}
}

// render adds the channel into interleaved stereo out and reports whether
// the channel has finished.
func (c *channel) render(out []float32, sampleRate int) bool {
	step := 2 * math.Pi * c.freq / float64(sampleRate)
	frames := len(out) / 2
	for i := 0; i < frames && c.remaining > 0; i++ {
		s := float32(math.Sin(c.phase) * c.volume)
		out[2*i] += s
		out[2*i+1] += s
		c.phase += step
		if c.phase > 2*math.Pi {
			c.phase -= 2 * math.Pi
		}
		c.remaining--
	}
	return c.remaining <= 0
}
