package models

import "github.com/bnema/lootfilter/internal/blockgroup"

// BlockAction is the verdict of a block
type BlockAction int

const (
	Show BlockAction = iota
	Hide
)

func (a BlockAction) String() string {
	if a == Hide {
		return "Hide"
	}
	return "Show"
}

// DefaultIndent is used for item lines of blocks without a detected indent
const DefaultIndent = "    "

// Block is one Show/Hide rule of a filter script
type Block struct {
	Action BlockAction
	// Items are kept in source order, conditions usually come first
	Items []BlockItem
	// Group references a group of the owning script's tree, or NoGroup.
	// The zero value RootID renders without a group path, like NoGroup.
	Group       blockgroup.GroupID
	Enabled     bool
	Description string
	// LeadingComments are plain comment lines found directly above the block
	LeadingComments []string
	// InnerComments are comment lines between the group-path comment and
	// the action line, extra group-path comments included
	InnerComments []string
	// Indent prefixes every recognized item line on rendering
	Indent string

	// Source is the text the block was parsed from, nil for new blocks
	Source *BlockSource
}

// BlockSource remembers the original text of a parsed block and the
// fingerprint of its canonical rendering at parse time
type BlockSource struct {
	Text        string
	Fingerprint uint64
}

// NewBlock creates an enabled block without group
func NewBlock(action BlockAction, items ...BlockItem) *Block {
	return &Block{
		Action:  action,
		Items:   items,
		Group:   blockgroup.NoGroup,
		Enabled: true,
		Indent:  DefaultIndent,
	}
}

// Conditions returns the condition items in order
func (b *Block) Conditions() []BlockItem {
	var out []BlockItem
	for _, it := range b.Items {
		if IsCondition(it) {
			out = append(out, it)
		}
	}
	return out
}

// InvalidItems returns the items holding out-of-range values
func (b *Block) InvalidItems() []BlockItem {
	var out []BlockItem
	for _, it := range b.Items {
		if !it.Valid() {
			out = append(out, it)
		}
	}
	return out
}

// UnknownLines returns the lines the grammar did not recognize
func (b *Block) UnknownLines() []UnknownLine {
	var out []UnknownLine
	for _, it := range b.Items {
		if u, ok := it.(UnknownLine); ok {
			out = append(out, u)
		}
	}
	return out
}
