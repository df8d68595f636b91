package game

import (
	"bytes"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/lawnchairsociety/openscroller/internal/logger"
)

const sampleRate = 44100

// Effect names a sound effect.
type Effect int

const (
	EffectJump Effect = iota
	EffectCoin
	EffectBump
	EffectBreak
	EffectStomp
	EffectPowerUpAppears
	EffectPowerUp
	EffectPowerDown
	EffectFireball
	EffectFlag
	EffectPause
	EffectTimeWarning
	EffectGameOver
	EffectWin
)

// Track names a music loop.
type Track int

const (
	TrackNone Track = iota
	TrackOverworld
	TrackUnderground
	TrackHurry
)

type note struct {
	freq float64 // 0 is a rest
	dur  time.Duration
}

func tone(freq float64, ms int) note {
	return note{freq: freq, dur: time.Duration(ms) * time.Millisecond}
}

// Pitches used by the jingles.
const (
	c4 = 261.63
	e4 = 329.63
	g4 = 392.00
	a4 = 440.00
	c5 = 523.25
	e5 = 659.25
	g5 = 783.99
	c6 = 1046.50
)

var effectNotes = map[Effect][]note{
	EffectJump:           {tone(c5, 40), tone(e5, 40), tone(g5, 60)},
	EffectCoin:           {tone(987.77, 60), tone(1318.51, 180)},
	EffectBump:           {tone(110, 70)},
	EffectBreak:          {tone(196, 40), tone(98, 80)},
	EffectStomp:          {tone(g4, 40), tone(c5, 60)},
	EffectPowerUpAppears: {tone(g4, 50), tone(a4, 50), tone(c5, 50), tone(e5, 50)},
	EffectPowerUp:        {tone(c5, 50), tone(e5, 50), tone(g5, 50), tone(c6, 120)},
	EffectPowerDown:      {tone(c6, 50), tone(g5, 50), tone(e5, 50), tone(c5, 120)},
	EffectFireball:       {tone(1200, 30), tone(800, 30)},
	EffectFlag:           {tone(c4, 60), tone(e4, 60), tone(g4, 60), tone(c5, 60), tone(e5, 60), tone(g5, 60), tone(c6, 240)},
	EffectPause:          {tone(e5, 60), tone(c5, 60), tone(e5, 60), tone(c5, 60)},
	EffectTimeWarning:    {tone(c6, 80), tone(0, 40), tone(c6, 80), tone(0, 40), tone(c6, 80)},
	EffectGameOver:       {tone(c5, 200), tone(g4, 200), tone(e4, 300), tone(a4, 150), tone(c4, 400)},
	EffectWin:            {tone(g4, 120), tone(c5, 120), tone(e5, 120), tone(g5, 120), tone(c6, 120), tone(e5, 120), tone(g5, 400)},
}

var themeNotes = []note{
	tone(e5, 150), tone(e5, 150), tone(0, 150), tone(e5, 150), tone(0, 150), tone(c5, 150), tone(e5, 150), tone(0, 150),
	tone(g5, 150), tone(0, 450), tone(g4, 150), tone(0, 450),
}

var undergroundNotes = []note{
	tone(c4, 150), tone(c5, 150), tone(a4/2, 150), tone(a4, 150), tone(233.08/2, 150), tone(233.08, 150), tone(0, 900),
}

// Sounds plays synthesized effects and music. A nil *Sounds is silent.
type Sounds struct {
	ctx     *audio.Context
	effects map[Effect]*audio.Player
	music   map[Track]*audio.Player
	current Track

	musicOn   bool
	effectsOn bool
	volume    float64
}

// NewSounds prepares every effect and track. Only one audio context may
// exist per process, so an existing one is reused.
func NewSounds(musicOn, effectsOn bool, volume int) *Sounds {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(sampleRate)
	}
	s := &Sounds{
		ctx:       ctx,
		effects:   make(map[Effect]*audio.Player, len(effectNotes)),
		music:     make(map[Track]*audio.Player),
		musicOn:   musicOn,
		effectsOn: effectsOn,
	}
	for e, notes := range effectNotes {
		s.effects[e] = ctx.NewPlayerFromBytes(synth(notes, 1))
	}
	s.music[TrackOverworld] = s.loop(themeNotes, 1)
	s.music[TrackUnderground] = s.loop(undergroundNotes, 1)
	s.music[TrackHurry] = s.loop(themeNotes, 1.5)
	s.SetVolume(volume)
	return s
}

func (s *Sounds) loop(notes []note, tempo float64) *audio.Player {
	pcm := synth(notes, tempo)
	p, err := s.ctx.NewPlayer(audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm))))
	if err != nil {
		logger.Warning("Failed to create music player", "error", err)
		return nil
	}
	return p
}

// Play starts an effect from the beginning.
func (s *Sounds) Play(e Effect) {
	if s == nil || !s.effectsOn {
		return
	}
	p := s.effects[e]
	if p == nil {
		return
	}
	_ = p.SetPosition(0)
	p.Play()
}

// PlayMusic switches to track, restarting it when it changes.
func (s *Sounds) PlayMusic(t Track) {
	if s == nil {
		return
	}
	if t != s.current {
		s.stopMusic()
		s.current = t
		if p := s.music[t]; p != nil {
			_ = p.SetPosition(0)
		}
	}
	if p := s.music[t]; p != nil && s.musicOn && !p.IsPlaying() {
		p.Play()
	}
}

// StopMusic silences the current track.
func (s *Sounds) StopMusic() {
	if s == nil {
		return
	}
	s.stopMusic()
	s.current = TrackNone
}

func (s *Sounds) stopMusic() {
	if p := s.music[s.current]; p != nil {
		p.Pause()
	}
}

// SetMusic toggles music.
func (s *Sounds) SetMusic(on bool) {
	if s == nil {
		return
	}
	s.musicOn = on
	if !on {
		s.stopMusic()
		return
	}
	s.PlayMusic(s.current)
}

// SetEffects toggles effects.
func (s *Sounds) SetEffects(on bool) {
	if s != nil {
		s.effectsOn = on
	}
}

// SetVolume applies a 0..100 volume to every player.
func (s *Sounds) SetVolume(volume int) {
	if s == nil {
		return
	}
	s.volume = float64(min(max(volume, 0), 100)) / 100
	for _, p := range s.effects {
		p.SetVolume(s.volume)
	}
	for _, p := range s.music {
		if p != nil {
			p.SetVolume(s.volume * 0.4)
		}
	}
}

// synth renders notes as 16-bit stereo little-endian PCM. Each note is a
// square wave with a short linear fade out.
func synth(notes []note, tempo float64) []byte {
	var total int
	for _, nt := range notes {
		total += samplesFor(nt.dur, tempo)
	}
	pcm := make([]byte, 0, total*4)
	for _, nt := range notes {
		count := samplesFor(nt.dur, tempo)
		for i := 0; i < count; i++ {
			var v float64
			if nt.freq > 0 {
				phase := math.Mod(nt.freq*float64(i)/sampleRate, 1)
				v = 0.25
				if phase >= 0.5 {
					v = -0.25
				}
				v *= 1 - float64(i)/float64(count)
			}
			sample := int16(v * 32767)
			pcm = append(pcm, byte(sample), byte(sample>>8), byte(sample), byte(sample>>8))
		}
	}
	return pcm
}

func samplesFor(d time.Duration, tempo float64) int {
	return int(d.Seconds() / tempo * sampleRate)
}
