package translator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lootfilter/internal/blockgroup"
	"github.com/bnema/lootfilter/internal/models"
)

const sampleScript = `# My filter
# version 1

# BlockGroup: Currency > High Value
Show # Exalted
    BaseType "Exalted Orb"
    SetFontSize 45

# BlockGroup: Currency > Low Value
Hide
    Class "Currency"

# BlockGroup: Currency > High Value
Show
    BaseType "Divine Orb"
`

func TestTranslateStringToScript(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript(sampleScript)
	require.NoError(t, err)

	assert.Equal(t, "# My filter\n# version 1", script.Header)
	require.Len(t, script.Blocks, 3)
	assert.Equal(t, "Exalted", script.Blocks[0].Description)
	assert.Equal(t, models.Hide, script.Blocks[1].Action)

	high, ok := script.Groups.Find([]string{"Currency", "High Value"})
	require.True(t, ok)
	low, ok := script.Groups.Find([]string{"Currency", "Low Value"})
	require.True(t, ok)
	assert.Equal(t, high, script.Blocks[0].Group)
	assert.Equal(t, low, script.Blocks[1].Group)
	assert.Equal(t, high, script.Blocks[2].Group)

	currency, _ := script.Groups.Find([]string{"Currency"})
	g, _ := script.Groups.Get(currency)
	assert.Equal(t, blockgroup.Indeterminate, g.Show)
	assert.Equal(t, blockgroup.Checked, g.Enabled)
	assert.Equal(t, 4, script.Groups.Len())
}

func TestScriptRoundTripIsByteIdentical(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript(sampleScript)
	require.NoError(t, err)

	out, err := tr.TranslateScriptToString(script)
	require.NoError(t, err)
	assert.Equal(t, sampleScript, out)
}

func TestScriptRenderAfterEdit(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript(sampleScript)
	require.NoError(t, err)

	low, _ := script.Groups.Find([]string{"Currency", "Low Value"})
	require.NoError(t, script.SetGroupEnabled(low, false))

	out, err := tr.TranslateScriptToString(script)
	require.NoError(t, err)
	assert.Contains(t, out, "# BlockGroup: Currency > Low Value\n#Disabled Block Start\n#Hide\n#    Class \"Currency\"\n#Disabled Block End")

	again, err := tr.TranslateStringToScript(out)
	require.NoError(t, err)
	assert.False(t, again.Blocks[1].Enabled)
	lowAgain, _ := again.Groups.Find([]string{"Currency", "Low Value"})
	g, _ := again.Groups.Get(lowAgain)
	assert.Equal(t, blockgroup.Unchecked, g.Enabled)
}

func TestMalformedSegmentFailsScript(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript("Show\n    ItemLevel 5\n\nHidee\n    Rarity Rare\n")
	assert.Nil(t, script)

	var mbe *MalformedBlockError
	require.True(t, errors.As(err, &mbe), "got %v", err)
	assert.Equal(t, 1, mbe.Segment)
	assert.Equal(t, 4, mbe.Line)
	assert.Equal(t, "Hide", mbe.Suggestion)
	assert.Zero(t, tr.Stats().Scripts)
}

func TestUnterminatedDisabledBlockBeforeNextBlock(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript("#Disabled Block Start\n#Show\n#    ItemLevel 5\nShow\n    ItemLevel 6\n")
	require.NoError(t, err)
	require.Len(t, script.Blocks, 2)

	assert.False(t, script.Blocks[0].Enabled)
	assert.Equal(t, models.Show, script.Blocks[0].Action)
	assert.Equal(t, []models.BlockItem{models.LevelCondition{Kind: models.ItemLevel, Value: 5}}, script.Blocks[0].Items)
	assert.True(t, script.Blocks[1].Enabled)
	assert.Equal(t, []models.BlockItem{models.LevelCondition{Kind: models.ItemLevel, Value: 6}}, script.Blocks[1].Items)
}

func TestCRLFRoundTrip(t *testing.T) {
	tr := NewScriptTranslator()
	text := strings.ReplaceAll(sampleScript, "\n", "\r\n")

	script, err := tr.TranslateStringToScript(text)
	require.NoError(t, err)
	assert.Equal(t, "\r\n", script.Newline)

	out, err := tr.TranslateScriptToString(script)
	require.NoError(t, err)
	assert.Equal(t, text, out)

	script.Blocks[1].Action = models.Show
	out, err = tr.TranslateScriptToString(script)
	require.NoError(t, err)
	assert.Contains(t, out, "# BlockGroup: Currency > Low Value\r\nShow\r\n    Class \"Currency\"\r\n")
	assert.NotContains(t, strings.ReplaceAll(out, "\r\n", ""), "\n")
}

func TestRenderWithoutGroupTree(t *testing.T) {
	tr := NewScriptTranslator()
	block := &models.Block{
		Action:  models.Hide,
		Enabled: true,
		Indent:  models.DefaultIndent,
		Items:   []models.BlockItem{models.ClassCondition{Values: []string{"Scrolls"}}},
	}

	out, err := tr.TranslateScriptToString(&models.Script{Blocks: []*models.Block{block}})
	require.NoError(t, err)
	assert.Equal(t, "Hide\n    Class \"Scrolls\"\n", out)

	block.Group = 5
	_, err = tr.TranslateScriptToString(&models.Script{Blocks: []*models.Block{block}})
	assert.ErrorIs(t, err, blockgroup.ErrUnknownGroup)
}

func TestParseFailureReportsScriptLine(t *testing.T) {
	tr := NewScriptTranslator()

	_, err := tr.TranslateStringToScript("# header\n\nShow\n    ItemLevel 1\n\nShow\n    Quality => 3\n")
	var pf *ParseFailure
	require.True(t, errors.As(err, &pf))
	assert.Equal(t, 1, pf.Segment)
	assert.Equal(t, 7, pf.Line)
}

func TestStatementBeforeFirstBlock(t *testing.T) {
	tr := NewScriptTranslator()

	_, err := tr.TranslateStringToScript("# header\nItemLevel 5\nShow\n")
	var mbe *MalformedBlockError
	require.True(t, errors.As(err, &mbe))
	assert.Equal(t, 0, mbe.Segment)
	assert.Equal(t, 2, mbe.Line)
}

func TestMisspellingInsideBlockIsUnknownLine(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript("Show\n    Hidee\n    ItemLevel 3\n")
	require.NoError(t, err)
	require.Len(t, script.Blocks, 1)
	assert.Equal(t, []models.UnknownLine{{Raw: "    Hidee"}}, script.Blocks[0].UnknownLines())
}

func TestConflictingFlagsFirstWins(t *testing.T) {
	tr := NewScriptTranslator()

	script, err := tr.TranslateStringToScript(
		"# BlockGroup: Weapons > Swords\nShow\n\n# BlockGroup: Weapons > Swords\nHide\n")
	require.NoError(t, err)

	weapons, ok := script.Groups.Child(blockgroup.RootID, "Weapons")
	require.True(t, ok)
	w, _ := script.Groups.Get(weapons)
	require.Len(t, w.Children, 1)

	swords, _ := script.Groups.Get(w.Children[0])
	assert.Equal(t, "Swords", swords.Name)
	assert.Equal(t, blockgroup.Checked, swords.Show)
}

func TestHeaderOnlyAndEmptyScripts(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		header string
	}{
		{"empty", "", ""},
		{"header only", "# nothing but notes\n# second line\n", "# nothing but notes\n# second line"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewScriptTranslator()
			script, err := tr.TranslateStringToScript(tt.text)
			require.NoError(t, err)
			assert.Empty(t, script.Blocks)
			assert.Equal(t, tt.header, script.Header)

			out, err := tr.TranslateScriptToString(script)
			require.NoError(t, err)
			assert.Equal(t, tt.text, out)
		})
	}
}

func TestBuiltScriptRoundTrip(t *testing.T) {
	tr := NewScriptTranslator()

	script := models.NewScript()
	script.Header = "# generated"
	gems, err := script.Groups.AddChild(blockgroup.RootID, "~Gems", true, true)
	require.NoError(t, err)

	b1 := models.NewBlock(models.Show,
		models.ClassCondition{Values: []string{"Skill Gems"}},
		models.NumericCondition{Attribute: models.Quality, Op: models.OpGreaterEqual, Value: 15},
	)
	b1.Group = gems
	b2 := models.NewBlock(models.Hide, models.LevelCondition{Kind: models.ItemLevel, Op: models.OpLess, Value: 60})
	b2.Enabled = false
	script.AddBlock(b1)
	script.AddBlock(b2)

	out, err := tr.TranslateScriptToString(script)
	require.NoError(t, err)
	assert.Equal(t, "# generated\n\n"+
		"# BlockGroup: ~Gems\nShow\n    Class \"Skill Gems\"\n    Quality >= 15\n\n"+
		"#Disabled Block Start\n#Hide\n#    ItemLevel < 60\n#Disabled Block End\n", out)

	parsed, err := tr.TranslateStringToScript(out)
	require.NoError(t, err)
	require.Len(t, parsed.Blocks, 2)
	assert.Equal(t, b1.Items, parsed.Blocks[0].Items)
	assert.Equal(t, b2.Items, parsed.Blocks[1].Items)
	assert.False(t, parsed.Blocks[1].Enabled)
	assert.Equal(t, blockgroup.NoGroup, parsed.Blocks[1].Group)

	g, _ := parsed.Groups.Get(parsed.Blocks[0].Group)
	assert.True(t, g.Advanced)

	again, err := tr.TranslateScriptToString(parsed)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestRenderRejectsDanglingGroup(t *testing.T) {
	tr := NewScriptTranslator()
	script := models.NewScript()
	b := models.NewBlock(models.Show)
	b.Group = blockgroup.GroupID(3)
	script.AddBlock(b)

	_, err := tr.TranslateScriptToString(script)
	assert.ErrorIs(t, err, blockgroup.ErrUnknownGroup)
}

func TestTranslatorStats(t *testing.T) {
	tr := NewScriptTranslator()

	_, err := tr.TranslateStringToScript(
		"Show\n    FooBar 1\n    # note\n    ItemLevel 200\n\nHide\n    FooBar 2\n\n#Disabled Block Start\n#Show\n#Disabled Block End\n")
	require.NoError(t, err)

	s := tr.Stats()
	assert.Equal(t, 1, s.Scripts)
	assert.Equal(t, 3, s.Blocks)
	assert.Equal(t, 1, s.Hidden)
	assert.Equal(t, 1, s.Disabled)
	assert.Equal(t, 4, s.Items)
	assert.Equal(t, 3, s.UnknownLines)
	assert.Equal(t, 1, s.InvalidItems)
	assert.Equal(t, map[string]int{"FooBar": 2}, s.UnknownKeywords)
}

func TestTranslatorOptions(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	tr := NewScriptTranslator(WithIndent("\t"), WithPalette(testPalette()), WithLogger(logger))

	script, err := tr.TranslateStringToScript("Show\n\tSetTextColor @Chaos\n\nHide\n")
	require.NoError(t, err)
	assert.Equal(t, "\t", script.Blocks[0].Indent)
	assert.Equal(t, "\t", script.Blocks[1].Indent)
	assert.Contains(t, buf.String(), "translated script")

	_, err = tr.TranslateStringToScript("Show\n\tSetTextColor @Nope\n")
	assert.Error(t, err)
	assert.Contains(t, buf.String(), "block translation failed")
}
