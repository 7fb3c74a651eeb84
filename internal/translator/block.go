package translator

import (
	"errors"
	"strings"

	"github.com/zeebo/xxh3"

	"github.com/bnema/lootfilter/internal/models"
)

// Reserved comment forms
const (
	DisabledStartMarker = "#Disabled Block Start"
	DisabledEndMarker   = "#Disabled Block End"
	GroupPathPrefix     = "BlockGroup:"
	GroupPathSeparator  = " > "
)

// BlockTranslator converts one block's text to a Block and back. It keeps
// no per-block state and may be shared.
type BlockTranslator struct {
	palette Palette
	indent  string
}

// NewBlockTranslator creates a block translator. A nil palette resolves
// no color references.
func NewBlockTranslator(palette Palette) *BlockTranslator {
	if palette == nil {
		palette = emptyPalette{}
	}
	return &BlockTranslator{palette: palette, indent: models.DefaultIndent}
}

// TranslateStringToBlock parses one block and returns it together with the
// group path read from its group-path comment
func (t *BlockTranslator) TranslateStringToBlock(text string) (*models.Block, []string, error) {
	return t.translate(splitLines(text), position{firstLine: 1})
}

// TranslateBlockToString renders a block under the given group path. An
// unmodified parsed block is rendered as its original text.
func (t *BlockTranslator) TranslateBlockToString(b *models.Block, groupPath []string) string {
	canonical := t.render(b, groupPath)
	if b.Source != nil && xxh3.HashString(canonical) == b.Source.Fingerprint {
		return b.Source.Text
	}
	return canonical
}

// ReplaceColorItemsFromString re-parses only the color lines of text and
// replaces the color items of the same target in items, in place. Targets
// missing from items are appended. Other lines of text are ignored.
func (t *BlockTranslator) ReplaceColorItemsFromString(items []models.BlockItem, text string) ([]models.BlockItem, error) {
	out := append([]models.BlockItem(nil), items...)
	replaced := make(map[int]bool)

	for i, line := range splitLines(text) {
		stmt, _, _ := splitComment(line)
		keyword, _ := splitKeyword(stmt)
		if stmt == "" || !isColorKeyword(keyword) {
			continue
		}
		item, err := t.parseItem(line, position{firstLine: 1}, i)
		if err != nil {
			return nil, err
		}
		color := item.(models.ColorAction)

		slot := -1
		for j, existing := range out {
			if c, ok := existing.(models.ColorAction); ok && c.Target == color.Target && !replaced[j] {
				slot = j
				break
			}
		}
		if slot < 0 {
			out = append(out, color)
			slot = len(out) - 1
		} else {
			out[slot] = color
		}
		replaced[slot] = true
	}
	return out, nil
}

const crlf = "\r\n"

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, crlf, "\n")
	return strings.Split(text, "\n")
}

func isComment(trimmed string) bool {
	return strings.HasPrefix(trimmed, commentMarker)
}

func isDisabledStart(trimmed string) bool {
	return strings.EqualFold(trimmed, DisabledStartMarker)
}

func isDisabledEnd(trimmed string) bool {
	return strings.EqualFold(trimmed, DisabledEndMarker)
}

// parseGroupPath reads a group-path comment such as
// "# BlockGroup: Currency > High Value"
func parseGroupPath(trimmed string) ([]string, bool) {
	body := strings.TrimSpace(strings.TrimLeft(trimmed, commentMarker))
	if len(body) < len(GroupPathPrefix) || !strings.EqualFold(body[:len(GroupPathPrefix)], GroupPathPrefix) {
		return nil, false
	}
	var path []string
	for _, seg := range strings.Split(body[len(GroupPathPrefix):], ">") {
		seg = strings.TrimSpace(seg)
		if strings.HasPrefix(seg, "~") {
			seg = "~" + strings.TrimSpace(seg[1:])
		}
		if seg == "" || seg == "~" {
			continue
		}
		path = append(path, seg)
	}
	return path, true
}

// uncomment strips the first comment marker of a disabled block line
func uncomment(line string) string {
	i := strings.Index(line, commentMarker)
	return line[:i] + line[i+1:]
}

func leadingSpace(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

func trimTrailingBlank(lines []string) []string {
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return lines[:end]
}

func (t *BlockTranslator) translate(lines []string, pos position) (*models.Block, []string, error) {
	lines = trimTrailingBlank(lines)
	block := models.NewBlock(models.Show)
	block.Indent = ""
	var groupPath []string

	seenAction, seenGroup, indentSet := false, false, false
	disabled, disabledEnded := false, false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		lineNo := pos.firstLine + i

		switch {
		case !seenAction && !disabled && isDisabledStart(trimmed):
			disabled = true
			block.Enabled = false
			continue
		case disabled && !disabledEnded && isDisabledEnd(trimmed):
			disabledEnded = true
			continue
		case disabled && !disabledEnded && trimmed != "":
			if !isComment(trimmed) {
				return nil, nil, &MalformedBlockError{Segment: pos.segment, Line: lineNo, Text: trimmed,
					Reason: "uncommented line inside a disabled block"}
			}
			line = uncomment(line)
			trimmed = strings.TrimSpace(line)
		case disabledEnded && trimmed != "" && !isComment(trimmed):
			return nil, nil, &MalformedBlockError{Segment: pos.segment, Line: lineNo, Text: trimmed,
				Reason: "statement after the end of a disabled block"}
		}

		if trimmed == "" {
			continue
		}

		if !seenAction {
			if isComment(trimmed) {
				if seenGroup {
					block.InnerComments = append(block.InnerComments, line)
					continue
				}
				if path, ok := parseGroupPath(trimmed); ok {
					groupPath, seenGroup = path, true
					continue
				}
				block.LeadingComments = append(block.LeadingComments, line)
				continue
			}
			stmt, comment, _ := splitComment(trimmed)
			keyword, rest := splitKeyword(stmt)
			if !isBlockKeyword(keyword) {
				return nil, nil, &MalformedBlockError{Segment: pos.segment, Line: lineNo, Text: trimmed,
					Suggestion: closest(keyword, blockKeywords, 2)}
			}
			if rest != "" {
				return nil, nil, &MalformedBlockError{Segment: pos.segment, Line: lineNo, Text: trimmed,
					Reason: "unexpected values after " + keyword}
			}
			if strings.EqualFold(keyword, "Hide") {
				block.Action = models.Hide
			}
			block.Description = comment
			seenAction = true
			continue
		}

		if isComment(trimmed) {
			block.Items = append(block.Items, models.UnknownLine{Raw: line})
			continue
		}
		if !indentSet {
			block.Indent = leadingSpace(line)
			indentSet = true
		}

		item, err := t.parseItem(line, pos, i)
		if err != nil {
			return nil, nil, err
		}
		block.Items = append(block.Items, item)
		if _, comment, has := splitComment(trimmed); has && !isColorKeyword(item.Keyword()) {
			if _, unknown := item.(models.UnknownLine); !unknown {
				block.Items = append(block.Items, models.UnknownLine{Raw: commentMarker + " " + comment, Trailing: true})
			}
		}
	}

	if !seenAction {
		text := ""
		if len(lines) > 0 {
			text = strings.TrimSpace(lines[0])
		}
		return nil, nil, &MalformedBlockError{Segment: pos.segment, Line: pos.firstLine, Text: text,
			Reason: "missing Show or Hide"}
	}
	if !indentSet {
		block.Indent = t.indent
	}

	block.Source = &models.BlockSource{
		Text:        strings.Join(lines, "\n"),
		Fingerprint: xxh3.HashString(t.render(block, groupPath)),
	}
	return block, groupPath, nil
}

// parseItem parses one item line. Lines with an unrecognized keyword become
// UnknownLine items.
func (t *BlockTranslator) parseItem(line string, pos position, index int) (models.BlockItem, error) {
	trimmed := strings.TrimSpace(line)
	stmt, comment, hasComment := splitComment(trimmed)
	keyword, values := splitKeyword(stmt)

	g, canonical := lookupGrammar(keyword)
	if g == nil {
		return models.UnknownLine{Raw: line}, nil
	}

	ctx := &lineContext{palette: t.palette, comment: comment, hasComment: hasComment}
	item, err := g.parse(ctx, canonical, values)
	if err != nil {
		lineNo := pos.firstLine + index
		var le *lineError
		if errors.As(err, &le) && le.unresolved != "" {
			return nil, &UnresolvedReferenceError{Segment: pos.segment, Line: lineNo, Name: le.unresolved, Text: trimmed}
		}
		return nil, &ParseFailure{Segment: pos.segment, Line: lineNo, Keyword: canonical, Text: trimmed, Reason: err.Error()}
	}
	return item, nil
}

func (t *BlockTranslator) render(b *models.Block, groupPath []string) string {
	var lines []string
	lines = append(lines, b.LeadingComments...)
	if len(groupPath) > 0 {
		lines = append(lines, commentMarker+" "+GroupPathPrefix+" "+strings.Join(groupPath, GroupPathSeparator))
	}
	lines = append(lines, b.InnerComments...)

	action := b.Action.String()
	if b.Description != "" {
		action += " " + commentMarker + " " + b.Description
	}
	body := []string{action}
	for _, item := range b.Items {
		if u, ok := item.(models.UnknownLine); ok {
			switch {
			case u.Trailing && len(body) > 1:
				body[len(body)-1] += " " + u.Raw
			case u.Trailing:
				body = append(body, b.Indent+u.Raw)
			default:
				body = append(body, u.Raw)
			}
			continue
		}
		body = append(body, b.Indent+item.String())
	}

	if b.Enabled {
		lines = append(lines, body...)
	} else {
		lines = append(lines, DisabledStartMarker)
		for _, l := range body {
			lines = append(lines, commentMarker+l)
		}
		lines = append(lines, DisabledEndMarker)
	}
	return strings.Join(lines, "\n")
}
