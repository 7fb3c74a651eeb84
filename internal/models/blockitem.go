package models

import (
	"strconv"
	"strings"
)

// BlockItem is one condition or action line of a block
type BlockItem interface {
	// Keyword returns the canonical line keyword
	Keyword() string
	// String renders the canonical line, without indentation
	String() string
	// Valid reports whether every value is inside its legal range
	Valid() bool
}

// Operator is a comparison operator. OpNone renders nothing and means equality.
type Operator string

const (
	OpNone         Operator = ""
	OpEqual        Operator = "="
	OpExact        Operator = "=="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
)

// Range is an inclusive legal value range
type Range struct {
	Min, Max int
}

// Contains reports whether v lies inside the range
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

func joinLine(keyword string, op Operator, values ...string) string {
	parts := make([]string, 0, len(values)+2)
	parts = append(parts, keyword)
	if op != OpNone {
		parts = append(parts, string(op))
	}
	parts = append(parts, values...)
	return strings.Join(parts, " ")
}

// Rarity of an item
type Rarity int

const (
	RarityNormal Rarity = iota
	RarityMagic
	RarityRare
	RarityUnique
)

var rarityNames = []string{"Normal", "Magic", "Rare", "Unique"}

func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return "Rarity(" + strconv.Itoa(int(r)) + ")"
	}
	return rarityNames[r]
}

// ParseRarity parses a rarity name case-insensitively
func ParseRarity(s string) (Rarity, bool) {
	for i, name := range rarityNames {
		if strings.EqualFold(name, s) {
			return Rarity(i), true
		}
	}
	return 0, false
}

// RarityCondition matches items by rarity
type RarityCondition struct {
	Op     Operator
	Values []Rarity
}

func (c RarityCondition) Keyword() string { return "Rarity" }

func (c RarityCondition) String() string {
	values := make([]string, len(c.Values))
	for i, v := range c.Values {
		values[i] = v.String()
	}
	return joinLine(c.Keyword(), c.Op, values...)
}

func (c RarityCondition) Valid() bool {
	for _, v := range c.Values {
		if v < RarityNormal || v > RarityUnique {
			return false
		}
	}
	return len(c.Values) > 0
}

// LevelKind selects the level attribute of a LevelCondition
type LevelKind int

const (
	ItemLevel LevelKind = iota
	DropLevel
)

// LevelRange is the legal range of item and drop levels
var LevelRange = Range{0, 100}

// LevelCondition matches items by item level or drop level
type LevelCondition struct {
	Kind  LevelKind
	Op    Operator
	Value int
}

func (c LevelCondition) Keyword() string {
	if c.Kind == DropLevel {
		return "DropLevel"
	}
	return "ItemLevel"
}

func (c LevelCondition) String() string {
	return joinLine(c.Keyword(), c.Op, strconv.Itoa(c.Value))
}

func (c LevelCondition) Valid() bool { return LevelRange.Contains(c.Value) }

// SizeKind selects the inventory dimension of a SizeCondition
type SizeKind int

const (
	Width SizeKind = iota
	Height
)

// SizeCondition matches items by inventory width or height
type SizeCondition struct {
	Kind  SizeKind
	Op    Operator
	Value int
}

func (c SizeCondition) Keyword() string {
	if c.Kind == Height {
		return "Height"
	}
	return "Width"
}

func (c SizeCondition) String() string {
	return joinLine(c.Keyword(), c.Op, strconv.Itoa(c.Value))
}

func (c SizeCondition) Valid() bool {
	if c.Kind == Height {
		return Range{1, 4}.Contains(c.Value)
	}
	return Range{1, 2}.Contains(c.Value)
}

// NumericAttribute is an attribute compared against a single number
type NumericAttribute int

const (
	Quality NumericAttribute = iota
	LinkedSockets
	StackSize
	GemLevel
	MapTier
)

// NumericAttributes describes every NumericAttribute
var NumericAttributes = []struct {
	Keyword string
	Range   Range
}{
	Quality:       {"Quality", Range{0, 20}},
	LinkedSockets: {"LinkedSockets", Range{0, 6}},
	StackSize:     {"StackSize", Range{1, 5000}},
	GemLevel:      {"GemLevel", Range{1, 21}},
	MapTier:       {"MapTier", Range{1, 17}},
}

// NumericCondition matches items by a numeric attribute
type NumericCondition struct {
	Attribute NumericAttribute
	Op        Operator
	Value     int
}

func (c NumericCondition) Keyword() string { return NumericAttributes[c.Attribute].Keyword }

func (c NumericCondition) String() string {
	return joinLine(c.Keyword(), c.Op, strconv.Itoa(c.Value))
}

func (c NumericCondition) Valid() bool {
	return NumericAttributes[c.Attribute].Range.Contains(c.Value)
}

// SocketKind selects between total and linked-group socket matching
type SocketKind int

const (
	Sockets SocketKind = iota
	SocketGroup
)

// SocketColors lists the legal socket color letters
const SocketColors = "RGBWAD"

// SocketSpec is one socket token, for example 5, RGB or 6RRG
type SocketSpec struct {
	Count  int // 0 when the token has no count
	Colors string
}

func (s SocketSpec) String() string {
	if s.Count == 0 {
		return s.Colors
	}
	return strconv.Itoa(s.Count) + s.Colors
}

// SocketCondition matches items by sockets or linked socket groups
type SocketCondition struct {
	Kind  SocketKind
	Op    Operator
	Specs []SocketSpec
}

func (c SocketCondition) Keyword() string {
	if c.Kind == SocketGroup {
		return "SocketGroup"
	}
	return "Sockets"
}

func (c SocketCondition) String() string {
	values := make([]string, len(c.Specs))
	for i, s := range c.Specs {
		values[i] = s.String()
	}
	return joinLine(c.Keyword(), c.Op, values...)
}

func (c SocketCondition) Valid() bool {
	if len(c.Specs) == 0 {
		return false
	}
	for _, s := range c.Specs {
		if !(Range{0, 6}).Contains(s.Count) || len(s.Colors) > 6 {
			return false
		}
	}
	return true
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = `"` + v + `"`
	}
	return out
}

// ClassCondition matches items by item class
type ClassCondition struct {
	Op     Operator // OpNone, OpEqual or OpExact
	Values []string
}

func (c ClassCondition) Keyword() string { return "Class" }

func (c ClassCondition) String() string {
	return joinLine(c.Keyword(), c.Op, quoteAll(c.Values)...)
}

func (c ClassCondition) Valid() bool { return len(c.Values) > 0 }

// BaseTypeCondition matches items by base type
type BaseTypeCondition struct {
	Op     Operator // OpNone, OpEqual or OpExact
	Values []string
}

func (c BaseTypeCondition) Keyword() string { return "BaseType" }

func (c BaseTypeCondition) String() string {
	return joinLine(c.Keyword(), c.Op, quoteAll(c.Values)...)
}

func (c BaseTypeCondition) Valid() bool { return len(c.Values) > 0 }

// BoolAttribute is an attribute matched against True or False
type BoolAttribute int

const (
	Identified BoolAttribute = iota
	Corrupted
	ShaperItem
	ElderItem
	ShapedMap
)

// BoolAttributeKeywords holds the keyword of every BoolAttribute
var BoolAttributeKeywords = []string{
	Identified: "Identified",
	Corrupted:  "Corrupted",
	ShaperItem: "ShaperItem",
	ElderItem:  "ElderItem",
	ShapedMap:  "ShapedMap",
}

// BoolCondition matches items by a boolean attribute
type BoolCondition struct {
	Attribute BoolAttribute
	Value     bool
}

func (c BoolCondition) Keyword() string { return BoolAttributeKeywords[c.Attribute] }

func (c BoolCondition) String() string {
	if c.Value {
		return c.Keyword() + " True"
	}
	return c.Keyword() + " False"
}

func (c BoolCondition) Valid() bool { return true }

// UnknownLine keeps a line the grammar does not recognize, verbatim
type UnknownLine struct {
	Raw string
	// Trailing marks a comment that ends the previous line, Raw holds
	// only the comment, "# note"
	Trailing bool
}

// Keyword returns the first token of the line
func (u UnknownLine) Keyword() string {
	fields := strings.Fields(u.Raw)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func (u UnknownLine) String() string { return u.Raw }

func (u UnknownLine) Valid() bool { return true }

// IsCondition reports whether item is a condition rather than an action
func IsCondition(item BlockItem) bool {
	switch item.(type) {
	case RarityCondition, LevelCondition, SizeCondition, NumericCondition,
		SocketCondition, ClassCondition, BaseTypeCondition, BoolCondition:
		return true
	}
	return false
}
