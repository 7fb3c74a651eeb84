package translator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lootfilter/internal/models"
)

func TestSplitComment(t *testing.T) {
	tests := []struct {
		line    string
		stmt    string
		comment string
		has     bool
	}{
		{"ItemLevel 5", "ItemLevel 5", "", false},
		{"ItemLevel 5 # low", "ItemLevel 5", "low", true},
		{`BaseType "Orb #1" # quoted marker`, `BaseType "Orb #1"`, "quoted marker", true},
		{"# whole line", "", "whole line", true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			stmt, comment, has := splitComment(tt.line)
			assert.Equal(t, tt.stmt, stmt)
			assert.Equal(t, tt.comment, comment)
			assert.Equal(t, tt.has, has)
		})
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := tokenize(`"Stackable Currency"  Maps	"" x`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Stackable Currency", "Maps", "", "x"}, tokens)

	_, err = tokenize(`"open`)
	assert.Error(t, err)
}

func TestSplitOperator(t *testing.T) {
	tests := []struct {
		values string
		op     models.Operator
		rest   string
		err    bool
	}{
		{"5", models.OpNone, "5", false},
		{">= 5", models.OpGreaterEqual, "5", false},
		{"<=5", models.OpLessEqual, "5", false},
		{"== Rare", models.OpExact, "Rare", false},
		{"= Rare", models.OpEqual, "Rare", false},
		{"> 1", models.OpGreater, "1", false},
		{"=> 5", models.OpNone, "", true},
		{"!= 5", models.OpNone, "", true},
		{"<<< 5", models.OpNone, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.values, func(t *testing.T) {
			op, rest, err := splitOperator(tt.values)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		keyword  string
		expected string
	}{
		{"ItemLvel", "ItemLevel"},
		{"setfontsize", ""},
		{"Rarty", "Rarity"},
		{"Qualiti", "Quality"},
		{"CompletelyDifferent", ""},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.expected, Suggest(tt.keyword))
		})
	}
}

func TestMisspelledBlockKeyword(t *testing.T) {
	assert.True(t, misspelledBlockKeyword("Hidee"))
	assert.True(t, misspelledBlockKeyword("Shw"))
	assert.False(t, misspelledBlockKeyword("Show"))
	assert.False(t, misspelledBlockKeyword("Width"))
	assert.False(t, misspelledBlockKeyword("Hi"))
}

func TestSplitSegments(t *testing.T) {
	text := "# header\n\n# lead\nShow\n    ItemLevel 1\n# trailing note\n\n#Disabled Block Start\n#Hide\n#Disabled Block End\nShow\n"
	header, segments := splitSegments(text)

	assert.Equal(t, "# header", header)
	require.Len(t, segments, 3)

	assert.Equal(t, 3, segments[0].firstLine)
	assert.Equal(t, []string{"# lead", "Show", "    ItemLevel 1", "# trailing note"}, segments[0].lines)

	assert.Equal(t, 8, segments[1].firstLine)
	assert.Equal(t, []string{"#Disabled Block Start", "#Hide", "#Disabled Block End"}, segments[1].lines)

	assert.Equal(t, 11, segments[2].firstLine)
	assert.Equal(t, []string{"Show"}, segments[2].lines)
}

func TestSplitSegmentsUnterminatedDisabled(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		lines [][]string
	}{
		{
			name: "next block follows directly",
			text: "#Disabled Block Start\n#Show\n#    ItemLevel 5\nShow\n    ItemLevel 6\n",
			lines: [][]string{
				{"#Disabled Block Start", "#Show", "#    ItemLevel 5"},
				{"Show", "    ItemLevel 6"},
			},
		},
		{
			name: "group comment after a blank line",
			text: "#Disabled Block Start\n#Show\n\n# BlockGroup: A\nShow\n",
			lines: [][]string{
				{"#Disabled Block Start", "#Show"},
				{"# BlockGroup: A", "Show"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, segments := splitSegments(tt.text)
			require.Len(t, segments, len(tt.lines))
			for i, want := range tt.lines {
				assert.Equal(t, want, segments[i].lines)
			}
		})
	}
}
