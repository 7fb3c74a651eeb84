package models

import (
	"strconv"
	"strings"
)

// ColorTarget selects which part of the item label a ColorAction paints
type ColorTarget int

const (
	TextColor ColorTarget = iota
	BackgroundColor
	BorderColor
)

var colorKeywords = []string{
	TextColor:       "SetTextColor",
	BackgroundColor: "SetBackgroundColor",
	BorderColor:     "SetBorderColor",
}

// ColorKeyword returns the keyword of a color target
func ColorKeyword(t ColorTarget) string {
	return colorKeywords[t]
}

// ChannelRange is the legal range of each color channel
var ChannelRange = Range{0, 255}

// Color is an RGBA color. Channels are ints so out-of-range values survive.
type Color struct {
	R, G, B, A int
}

// Valid reports whether every channel is inside 0-255
func (c Color) Valid() bool {
	return ChannelRange.Contains(c.R) && ChannelRange.Contains(c.G) &&
		ChannelRange.Contains(c.B) && ChannelRange.Contains(c.A)
}

// ColorAction paints the text, background or border of an item label
type ColorAction struct {
	Target ColorTarget
	Color  Color
	// OmitAlpha renders only R G B; set when the source had no alpha
	OmitAlpha bool
	// Reference is the palette name the color was resolved from, if any
	Reference string
	// Component is the theme component named in a trailing comment
	Component string
}

func (a ColorAction) Keyword() string { return ColorKeyword(a.Target) }

func (a ColorAction) String() string {
	var b strings.Builder
	b.WriteString(a.Keyword())
	if a.Reference != "" {
		b.WriteString(" @")
		b.WriteString(a.Reference)
	} else {
		b.WriteString(" " + strconv.Itoa(a.Color.R))
		b.WriteString(" " + strconv.Itoa(a.Color.G))
		b.WriteString(" " + strconv.Itoa(a.Color.B))
		if !a.OmitAlpha {
			b.WriteString(" " + strconv.Itoa(a.Color.A))
		}
	}
	if a.Component != "" {
		b.WriteString(" # ")
		b.WriteString(a.Component)
	}
	return b.String()
}

func (a ColorAction) Valid() bool { return a.Color.Valid() }

// FontSizeRange is the legal font size range
var FontSizeRange = Range{1, 45}

// FontSizeAction sets the label font size
type FontSizeAction struct {
	Size int
}

func (a FontSizeAction) Keyword() string { return "SetFontSize" }

func (a FontSizeAction) String() string {
	return a.Keyword() + " " + strconv.Itoa(a.Size)
}

func (a FontSizeAction) Valid() bool { return FontSizeRange.Contains(a.Size) }

// SoundKind selects the sound keyword
type SoundKind int

const (
	AlertSound SoundKind = iota
	PositionalAlertSound
	SoundID
)

var soundKeywords = []string{
	AlertSound:           "PlayAlertSound",
	PositionalAlertSound: "PlayAlertSoundPositional",
	SoundID:              "PlaySoundId",
}

// Sound ranges
var (
	SoundIDRange     = Range{1, 16}
	SoundVolumeRange = Range{0, 300}
)

// SoundAction plays an alert sound when the item drops
type SoundAction struct {
	Kind      SoundKind
	ID        string
	Volume    int
	HasVolume bool
}

func (a SoundAction) Keyword() string { return soundKeywords[a.Kind] }

func (a SoundAction) String() string {
	s := a.Keyword() + " " + a.ID
	if a.HasVolume {
		s += " " + strconv.Itoa(a.Volume)
	}
	return s
}

// Valid checks numeric ids against 1-16, named ids are accepted as is
func (a SoundAction) Valid() bool {
	if n, err := strconv.Atoi(a.ID); err == nil && !SoundIDRange.Contains(n) {
		return false
	}
	return !a.HasVolume || SoundVolumeRange.Contains(a.Volume)
}

// Flag is a value-less action
type Flag int

const (
	DisableDropSound Flag = iota
)

// FlagAction is an action line without values
type FlagAction struct {
	Flag Flag
}

func (a FlagAction) Keyword() string { return "DisableDropSound" }

func (a FlagAction) String() string { return a.Keyword() }

func (a FlagAction) Valid() bool { return true }
