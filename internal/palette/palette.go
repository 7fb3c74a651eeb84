// Package palette resolves named colors for SetTextColor @Name style
// references.
package palette

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/bnema/lootfilter/internal/models"
)

// Palette is a case-insensitive name to color table
type Palette struct {
	colors map[string]models.Color
	names  map[string]string // normalized -> display name
}

// New creates an empty palette
func New() *Palette {
	return &Palette{
		colors: make(map[string]models.Color),
		names:  make(map[string]string),
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set stores a color under name
func (p *Palette) Set(name string, c models.Color) {
	key := normalize(name)
	p.colors[key] = c
	p.names[key] = strings.TrimSpace(name)
}

// Lookup returns the color stored under name
func (p *Palette) Lookup(name string) (models.Color, bool) {
	c, ok := p.colors[normalize(name)]
	return c, ok
}

// Names returns the palette names, sorted
func (p *Palette) Names() []string {
	out := make([]string, 0, len(p.names))
	for _, n := range p.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of colors
func (p *Palette) Len() int {
	return len(p.colors)
}

// FromMap builds a palette from name -> color strings, as read from the
// [palette] config table
func FromMap(m map[string]string) (*Palette, error) {
	p := New()
	for name, value := range m {
		c, err := ParseColor(value)
		if err != nil {
			return nil, fmt.Errorf("palette color %q: %w", name, err)
		}
		p.Set(name, c)
	}
	return p, nil
}

// LoadYAML reads a theme file mapping names to color strings
func LoadYAML(r io.Reader) (*Palette, error) {
	var m map[string]string
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if err == io.EOF {
			return New(), nil
		}
		return nil, fmt.Errorf("decode theme: %w", err)
	}
	return FromMap(m)
}

// Merge copies every color of other into p, overwriting existing names
func (p *Palette) Merge(other *Palette) {
	for key, c := range other.colors {
		p.colors[key] = c
		p.names[key] = other.names[key]
	}
}

// ParseColor accepts "#rrggbb", "#rrggbbaa" or "R G B [A]"
func ParseColor(s string) (models.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHex(s)
	}

	fields := strings.Fields(s)
	if len(fields) != 3 && len(fields) != 4 {
		return models.Color{}, fmt.Errorf("expected #rrggbb[aa] or R G B [A], got %q", s)
	}
	channels := []int{0, 0, 0, 255}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return models.Color{}, fmt.Errorf("invalid channel %q", f)
		}
		channels[i] = n
	}
	c := models.Color{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}
	if !c.Valid() {
		return models.Color{}, fmt.Errorf("channel out of range in %q", s)
	}
	return c, nil
}

func parseHex(s string) (models.Color, error) {
	alpha := 255
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return models.Color{}, fmt.Errorf("invalid alpha in %q", s)
		}
		alpha = int(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return models.Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return models.Color{R: int(r), G: int(g), B: int(b), A: alpha}, nil
}
