package surface

import (
	"fmt"
	"strings"
	"sync"

	"github.com/muesli/termenv"
)

// Profile is the color capability of the output terminal.
type Profile uint8

const (
	ProfileNone      Profile = iota // NO_COLOR or dumb terminal
	ProfileANSI16                   // basic 16-color
	ProfileANSI256                  // 256-color
	ProfileTrueColor                // 24-bit
)

func (p Profile) String() string {
	switch p {
	case ProfileANSI16:
		return "ansi16"
	case ProfileANSI256:
		return "ansi256"
	case ProfileTrueColor:
		return "truecolor"
	default:
		return "none"
	}
}

var (
	profileOnce sync.Once
	profile     Profile
	seqCache    sync.Map
)

// DetectProfile reads the color capability of stdout once per process.
// NO_COLOR, dumb terminals and non-terminals get ProfileNone.
func DetectProfile() Profile {
	profileOnce.Do(func() {
		profile = profileFrom(termenv.EnvColorProfile())
	})
	return profile
}

func profileFrom(p termenv.Profile) Profile {
	switch p {
	case termenv.TrueColor:
		return ProfileTrueColor
	case termenv.ANSI256:
		return ProfileANSI256
	case termenv.ANSI:
		return ProfileANSI16
	default:
		return ProfileNone
	}
}

func (p Profile) toTermenv() termenv.Profile {
	switch p {
	case ProfileTrueColor:
		return termenv.TrueColor
	case ProfileANSI256:
		return termenv.ANSI256
	case ProfileANSI16:
		return termenv.ANSI
	default:
		return termenv.Ascii
	}
}

const ansiReset = "\x1b[0m"

type rgb struct {
	R, G, B uint8
}

func (c rgb) key() uint32 { return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B) }

func (c rgb) hex() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

const noColor = ^uint32(0)

// ansiState suppresses repeated escapes for runs of same-colored cells.
type ansiState struct {
	profile Profile
	fg      uint32
	bg      uint32
}

func newANSIState(p Profile) ansiState {
	return ansiState{profile: p, fg: noColor, bg: noColor}
}

func (s *ansiState) setFg(sb *strings.Builder, c rgb) {
	if s.profile == ProfileNone || c.key() == s.fg {
		return
	}
	sb.WriteString(colorSequence(s.profile, c, false))
	s.fg = c.key()
}

func (s *ansiState) setBg(sb *strings.Builder, c rgb) {
	if s.profile == ProfileNone || c.key() == s.bg {
		return
	}
	sb.WriteString(colorSequence(s.profile, c, true))
	s.bg = c.key()
}

// clearBg drops any background color while keeping the foreground.
func (s *ansiState) clearBg(sb *strings.Builder) {
	if s.profile == ProfileNone || s.bg == noColor {
		return
	}
	sb.WriteString("\x1b[49m")
	s.bg = noColor
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == ProfileNone || (s.fg == noColor && s.bg == noColor) {
		return
	}
	sb.WriteString(ansiReset)
	s.fg, s.bg = noColor, noColor
}

// colorSequence returns the escape selecting c as foreground or background
// color, downsampled to what p can show. Sequences are cached per profile.
func colorSequence(p Profile, c rgb, background bool) string {
	if p == ProfileNone {
		return ""
	}
	key := uint64(p)<<32 | uint64(c.key())
	if background {
		key |= 1 << 40
	}
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	if col := p.toTermenv().Color(c.hex()); col != nil {
		if params := col.Sequence(background); params != "" {
			seq = termenv.CSI + params + "m"
		}
	}
	seqCache.Store(key, seq)
	return seq
}

// asciiRamp runs from darkest to brightest.
const asciiRamp = " .:-=+*#%@"

func brightnessChar(level float64) byte {
	if level <= 0 {
		return ' '
	}
	idx := int(level*float64(len(asciiRamp)-1) + 0.5)
	if idx < 1 {
		idx = 1
	}
	if idx >= len(asciiRamp) {
		idx = len(asciiRamp) - 1
	}
	return asciiRamp[idx]
}
