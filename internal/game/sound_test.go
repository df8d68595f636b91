package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSynthLength(t *testing.T) {
	notes := []note{tone(440, 500), tone(0, 500)}

	pcm := synth(notes, 1)
	assert.Len(t, pcm, 2*22050*4)

	fast := synth(notes, 2)
	assert.Len(t, fast, 2*11025*4)
}

func TestSynthRestIsSilent(t *testing.T) {
	pcm := synth([]note{tone(0, 10)}, 1)
	for i, b := range pcm {
		if b != 0 {
			t.Fatalf("byte %d = %d, want 0", i, b)
		}
	}
}

func TestSamplesFor(t *testing.T) {
	assert.Equal(t, sampleRate, samplesFor(time.Second, 1))
	assert.Equal(t, sampleRate/2, samplesFor(time.Second, 2))
}

func TestNilSoundsIsSilent(t *testing.T) {
	var s *Sounds
	assert.NotPanics(t, func() {
		s.Play(EffectJump)
		s.PlayMusic(TrackOverworld)
		s.SetMusic(false)
		s.SetEffects(false)
		s.SetVolume(30)
		s.StopMusic()
	})
}
