package translator

import (
	"strings"

	"github.com/bnema/lootfilter/internal/models"
)

// Palette resolves named color references
type Palette interface {
	Lookup(name string) (models.Color, bool)
}

// PaletteFunc adapts a function to Palette
type PaletteFunc func(name string) (models.Color, bool)

// Lookup calls f
func (f PaletteFunc) Lookup(name string) (models.Color, bool) { return f(name) }

type emptyPalette struct{}

func (emptyPalette) Lookup(string) (models.Color, bool) { return models.Color{}, false }

// lineContext carries what a line grammar may need beyond its values
type lineContext struct {
	palette    Palette
	comment    string
	hasComment bool
}

type lineParser func(ctx *lineContext, keyword, values string) (models.BlockItem, error)

type grammar struct {
	keywords []string
	parse    lineParser
}

// grammars are tried in order, conditions before actions. The first grammar
// listing the keyword consumes the line.
var grammars = []grammar{
	{[]string{"ItemLevel", "DropLevel"}, parseLevel},
	{[]string{"Quality", "LinkedSockets", "StackSize", "GemLevel", "MapTier"}, parseNumeric},
	{[]string{"Rarity"}, parseRarity},
	{[]string{"Class"}, parseClass},
	{[]string{"BaseType"}, parseBaseType},
	{[]string{"Sockets", "SocketGroup"}, parseSockets},
	{[]string{"Width", "Height"}, parseSize},
	{[]string{"Identified", "Corrupted", "ShaperItem", "ElderItem", "ShapedMap"}, parseBool},
	{[]string{"SetTextColor", "SetBackgroundColor", "SetBorderColor"}, parseColor},
	{[]string{"SetFontSize"}, parseFontSize},
	{[]string{"PlayAlertSound", "PlayAlertSoundPositional", "PlaySoundId"}, parseSound},
	{[]string{"DisableDropSound"}, parseFlag},
}

// lookupGrammar finds the grammar for a keyword and returns the keyword's
// canonical spelling
func lookupGrammar(keyword string) (*grammar, string) {
	for i := range grammars {
		for _, kw := range grammars[i].keywords {
			if strings.EqualFold(kw, keyword) {
				return &grammars[i], kw
			}
		}
	}
	return nil, ""
}

// Keywords returns every recognized item keyword in trial order
func Keywords() []string {
	var out []string
	for _, g := range grammars {
		out = append(out, g.keywords...)
	}
	return out
}

func isColorKeyword(keyword string) bool {
	for _, t := range []models.ColorTarget{models.TextColor, models.BackgroundColor, models.BorderColor} {
		if strings.EqualFold(models.ColorKeyword(t), keyword) {
			return true
		}
	}
	return false
}

func parseNumber(values string) (models.Operator, int, error) {
	op, rest, err := splitOperator(values)
	if err != nil {
		return op, 0, err
	}
	if op == models.OpExact {
		return op, 0, failf("operator == is not allowed here")
	}
	tokens, err := tokenize(rest)
	if err != nil {
		return op, 0, err
	}
	if len(tokens) != 1 {
		return op, 0, failf("expected one number, got %d values", len(tokens))
	}
	n, err := parseInt(tokens[0])
	return op, n, err
}

func parseLevel(_ *lineContext, keyword, values string) (models.BlockItem, error) {
	op, n, err := parseNumber(values)
	if err != nil {
		return nil, err
	}
	kind := models.ItemLevel
	if keyword == "DropLevel" {
		kind = models.DropLevel
	}
	return models.LevelCondition{Kind: kind, Op: op, Value: n}, nil
}

func parseSize(_ *lineContext, keyword, values string) (models.BlockItem, error) {
	op, n, err := parseNumber(values)
	if err != nil {
		return nil, err
	}
	kind := models.Width
	if keyword == "Height" {
		kind = models.Height
	}
	return models.SizeCondition{Kind: kind, Op: op, Value: n}, nil
}

func parseNumeric(_ *lineContext, keyword, values string) (models.BlockItem, error) {
	op, n, err := parseNumber(values)
	if err != nil {
		return nil, err
	}
	for attr, desc := range models.NumericAttributes {
		if desc.Keyword == keyword {
			return models.NumericCondition{Attribute: models.NumericAttribute(attr), Op: op, Value: n}, nil
		}
	}
	return nil, failf("unknown numeric attribute")
}

func parseRarity(_ *lineContext, _, values string) (models.BlockItem, error) {
	op, rest, err := splitOperator(values)
	if err != nil {
		return nil, err
	}
	if op == models.OpExact {
		return nil, failf("operator == is not allowed here")
	}
	tokens, err := tokenize(rest)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, failf("expected a rarity")
	}
	c := models.RarityCondition{Op: op}
	for _, tok := range tokens {
		r, ok := models.ParseRarity(tok)
		if !ok {
			return nil, failf("unknown rarity %q", tok)
		}
		c.Values = append(c.Values, r)
	}
	return c, nil
}

func parseStrings(values string) (models.Operator, []string, error) {
	op, rest, err := splitOperator(values)
	if err != nil {
		return op, nil, err
	}
	if op != models.OpNone && op != models.OpEqual && op != models.OpExact {
		return op, nil, failf("operator %s is not allowed here", op)
	}
	tokens, err := tokenize(rest)
	if err != nil {
		return op, nil, err
	}
	if len(tokens) == 0 {
		return op, nil, failf("expected at least one name")
	}
	return op, tokens, nil
}

func parseClass(_ *lineContext, _, values string) (models.BlockItem, error) {
	op, names, err := parseStrings(values)
	if err != nil {
		return nil, err
	}
	return models.ClassCondition{Op: op, Values: names}, nil
}

func parseBaseType(_ *lineContext, _, values string) (models.BlockItem, error) {
	op, names, err := parseStrings(values)
	if err != nil {
		return nil, err
	}
	return models.BaseTypeCondition{Op: op, Values: names}, nil
}

func parseSockets(_ *lineContext, keyword, values string) (models.BlockItem, error) {
	op, rest, err := splitOperator(values)
	if err != nil {
		return nil, err
	}
	if op == models.OpExact {
		return nil, failf("operator == is not allowed here")
	}
	tokens, err := tokenize(rest)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, failf("expected a socket specification")
	}
	c := models.SocketCondition{Kind: models.Sockets, Op: op}
	if keyword == "SocketGroup" {
		c.Kind = models.SocketGroup
	}
	for _, tok := range tokens {
		spec, err := parseSocketSpec(tok)
		if err != nil {
			return nil, err
		}
		c.Specs = append(c.Specs, spec)
	}
	return c, nil
}

func parseSocketSpec(tok string) (models.SocketSpec, error) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	var spec models.SocketSpec
	if i > 0 {
		n, err := parseInt(tok[:i])
		if err != nil {
			return spec, err
		}
		spec.Count = n
	}
	colors := strings.ToUpper(tok[i:])
	for _, r := range colors {
		if !strings.ContainsRune(models.SocketColors, r) {
			return spec, failf("invalid socket color %q in %q", r, tok)
		}
	}
	spec.Colors = colors
	return spec, nil
}

func parseBool(_ *lineContext, keyword, values string) (models.BlockItem, error) {
	tokens, err := tokenize(values)
	if err != nil {
		return nil, err
	}
	if len(tokens) != 1 {
		return nil, failf("expected True or False")
	}
	var v bool
	switch {
	case strings.EqualFold(tokens[0], "True"):
		v = true
	case strings.EqualFold(tokens[0], "False"):
		v = false
	default:
		return nil, failf("expected True or False, got %q", tokens[0])
	}
	for attr, kw := range models.BoolAttributeKeywords {
		if kw == keyword {
			return models.BoolCondition{Attribute: models.BoolAttribute(attr), Value: v}, nil
		}
	}
	return nil, failf("unknown boolean attribute")
}

func parseColor(ctx *lineContext, keyword, values string) (models.BlockItem, error) {
	a := models.ColorAction{}
	switch keyword {
	case "SetBackgroundColor":
		a.Target = models.BackgroundColor
	case "SetBorderColor":
		a.Target = models.BorderColor
	}
	if ctx.hasComment {
		a.Component = ctx.comment
	}

	tokens, err := tokenize(values)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 1 && strings.HasPrefix(tokens[0], "@") {
		name := strings.TrimPrefix(tokens[0], "@")
		c, ok := ctx.palette.Lookup(name)
		if !ok {
			return nil, &lineError{reason: "unresolved color reference", unresolved: name}
		}
		a.Reference = name
		a.Color = c
		return a, nil
	}
	if len(tokens) != 3 && len(tokens) != 4 {
		return nil, failf("expected R G B [A], got %d values", len(tokens))
	}
	channels := make([]int, 4)
	channels[3] = 255
	for i, tok := range tokens {
		n, err := parseInt(tok)
		if err != nil {
			return nil, err
		}
		channels[i] = n
	}
	a.Color = models.Color{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}
	a.OmitAlpha = len(tokens) == 3
	return a, nil
}

func parseFontSize(_ *lineContext, _, values string) (models.BlockItem, error) {
	tokens, err := tokenize(values)
	if err != nil {
		return nil, err
	}
	if len(tokens) != 1 {
		return nil, failf("expected one font size")
	}
	n, err := parseInt(tokens[0])
	if err != nil {
		return nil, err
	}
	return models.FontSizeAction{Size: n}, nil
}

func parseSound(_ *lineContext, keyword, values string) (models.BlockItem, error) {
	tokens, err := tokenize(values)
	if err != nil {
		return nil, err
	}
	if len(tokens) != 1 && len(tokens) != 2 {
		return nil, failf("expected a sound id and an optional volume")
	}
	a := models.SoundAction{ID: tokens[0]}
	switch keyword {
	case "PlayAlertSoundPositional":
		a.Kind = models.PositionalAlertSound
	case "PlaySoundId":
		a.Kind = models.SoundID
	}
	if len(tokens) == 2 {
		v, err := parseInt(tokens[1])
		if err != nil {
			return nil, err
		}
		a.Volume, a.HasVolume = v, true
	}
	return a, nil
}

func parseFlag(_ *lineContext, _, values string) (models.BlockItem, error) {
	if strings.TrimSpace(values) != "" {
		return nil, failf("takes no values")
	}
	return models.FlagAction{Flag: models.DisableDropSound}, nil
}
