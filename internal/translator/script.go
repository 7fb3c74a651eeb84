// Package translator converts item filter script text to the structured
// model and back.
package translator

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bnema/lootfilter/internal/blockgroup"
	"github.com/bnema/lootfilter/internal/models"
)

// ScriptTranslator splits scripts into blocks and joins them back. It owns
// a block group builder, so it is not safe for concurrent use; use one
// translator per in-flight parse.
type ScriptTranslator struct {
	blocks  *BlockTranslator
	builder *blockgroup.Builder
	logger  zerolog.Logger
	stats   Stats
}

// Stats tracks translation statistics
type Stats struct {
	Scripts         int
	Blocks          int
	Hidden          int
	Disabled        int
	Items           int
	UnknownLines    int
	InvalidItems    int
	Groups          int
	UnknownKeywords map[string]int // unrecognized keyword -> occurrences
}

// Option configures a ScriptTranslator
type Option func(*ScriptTranslator)

// WithPalette sets the palette used to resolve color references
func WithPalette(p Palette) Option {
	return func(t *ScriptTranslator) {
		indent := t.blocks.indent
		t.blocks = NewBlockTranslator(p)
		t.blocks.indent = indent
	}
}

// WithIndent sets the item indentation of blocks that have no item lines
func WithIndent(indent string) Option {
	return func(t *ScriptTranslator) {
		t.blocks.indent = indent
	}
}

// WithLogger sets the logger for translation summaries
func WithLogger(l zerolog.Logger) Option {
	return func(t *ScriptTranslator) {
		t.logger = l
	}
}

// NewScriptTranslator creates a new script translator
func NewScriptTranslator(opts ...Option) *ScriptTranslator {
	t := &ScriptTranslator{
		blocks:  NewBlockTranslator(nil),
		builder: blockgroup.NewBuilder(),
		logger:  zerolog.Nop(),
		stats: Stats{
			UnknownKeywords: make(map[string]int),
		},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Stats returns translation statistics
func (t *ScriptTranslator) Stats() Stats {
	return t.stats
}

// BlockTranslator returns the block translator used for every block
func (t *ScriptTranslator) BlockTranslator() *BlockTranslator {
	return t.blocks
}

// TranslateStringToScript parses a whole script. Any block that fails to
// translate fails the whole script; no partial script is returned.
func (t *ScriptTranslator) TranslateStringToScript(text string) (*models.Script, error) {
	header, segments := splitSegments(text)

	script := models.NewScript()
	script.Header = header
	if strings.Contains(text, crlf) {
		script.Newline = crlf
	}

	t.builder.Initialise(script.Groups)
	defer t.builder.Cleanup()

	for _, seg := range segments {
		block, path, err := t.blocks.translate(seg.lines, position{segment: seg.index, firstLine: seg.firstLine})
		if err != nil {
			t.logger.Debug().Err(err).Int("segment", seg.index).Int("line", seg.firstLine).Msg("block translation failed")
			return nil, fmt.Errorf("translate script: %w", err)
		}

		group, err := t.builder.IntegratePath(path, block.Action == models.Show, block.Enabled)
		if err != nil {
			return nil, fmt.Errorf("translate script: segment %d: %w", seg.index, err)
		}
		block.Group = group
		script.AddBlock(block)
	}

	if err := t.builder.PropagateCheckedStates(); err != nil {
		return nil, err
	}

	t.record(script)
	t.logger.Debug().
		Int("blocks", len(script.Blocks)).
		Int("groups", script.Groups.Len()-1).
		Int("header_lines", countLines(header)).
		Msg("translated script")
	return script, nil
}

// TranslateScriptToString renders a script: header first, then every block
// in order, separated by one blank line
func (t *ScriptTranslator) TranslateScriptToString(script *models.Script) (string, error) {
	if err := script.Validate(); err != nil {
		return "", fmt.Errorf("render script: %w", err)
	}

	groups := script.Groups
	if groups == nil {
		groups = blockgroup.NewTree()
	}
	t.builder.Initialise(groups)
	defer t.builder.Cleanup()

	if err := t.builder.PropagateCheckedStates(); err != nil {
		return "", err
	}

	parts := make([]string, 0, len(script.Blocks)+1)
	if script.Header != "" {
		parts = append(parts, script.Header)
	}
	for i, b := range script.Blocks {
		path, err := t.builder.PathOf(b.Group)
		if err != nil {
			return "", fmt.Errorf("render script: block %d: %w", i, err)
		}
		parts = append(parts, t.blocks.TranslateBlockToString(b, path))
	}
	if len(parts) == 0 {
		return "", nil
	}
	out := strings.Join(parts, "\n\n") + "\n"
	if script.Newline != "" && script.Newline != "\n" {
		out = strings.ReplaceAll(out, "\n", script.Newline)
	}
	return out, nil
}

func (t *ScriptTranslator) record(script *models.Script) {
	t.stats.Scripts++
	t.stats.Groups += script.Groups.Len() - 1
	for _, b := range script.Blocks {
		t.stats.Blocks++
		if b.Action == models.Hide {
			t.stats.Hidden++
		}
		if !b.Enabled {
			t.stats.Disabled++
		}
		t.stats.Items += len(b.Items)
		t.stats.InvalidItems += len(b.InvalidItems())
		for _, u := range b.UnknownLines() {
			t.stats.UnknownLines++
			if kw := u.Keyword(); !strings.HasPrefix(kw, commentMarker) {
				t.stats.UnknownKeywords[kw]++
			}
		}
	}
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
