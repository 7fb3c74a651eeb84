package models

import (
	"fmt"

	"github.com/bnema/lootfilter/internal/blockgroup"
)

// Script is a whole item filter: header text, blocks in order and the
// block group tree the blocks reference
type Script struct {
	Header string
	Blocks []*Block
	Groups *blockgroup.Tree
	// Newline is the line ending written on rendering, empty means "\n"
	Newline string
}

// NewScript creates an empty script with a fresh group tree
func NewScript() *Script {
	return &Script{Groups: blockgroup.NewTree()}
}

// Validate checks that every block group reference resolves in the tree.
// NoGroup and RootID need no tree.
func (s *Script) Validate() error {
	for i, b := range s.Blocks {
		if b.Group == blockgroup.NoGroup || b.Group == blockgroup.RootID {
			continue
		}
		if s.Groups == nil || !s.Groups.Contains(b.Group) {
			return fmt.Errorf("block %d: %w: %d", i, blockgroup.ErrUnknownGroup, b.Group)
		}
	}
	return nil
}

// AddBlock appends a block
func (s *Script) AddBlock(b *Block) {
	s.Blocks = append(s.Blocks, b)
}

// RemoveBlock removes the block at index i
func (s *Script) RemoveBlock(i int) error {
	if i < 0 || i >= len(s.Blocks) {
		return fmt.Errorf("block index %d out of range", i)
	}
	s.Blocks = append(s.Blocks[:i], s.Blocks[i+1:]...)
	return nil
}

// BlocksInGroup returns the blocks referencing id or any group below it
func (s *Script) BlocksInGroup(id blockgroup.GroupID) []*Block {
	if s.Groups == nil {
		return nil
	}
	members := make(map[blockgroup.GroupID]bool)
	for _, g := range s.Groups.Descendants(id) {
		members[g] = true
	}
	var out []*Block
	for _, b := range s.Blocks {
		if members[b.Group] {
			out = append(out, b)
		}
	}
	return out
}

// SetGroupEnabled enables or disables every block under id
func (s *Script) SetGroupEnabled(id blockgroup.GroupID, enabled bool) error {
	return s.applyToGroup(id, func(b *Block) { b.Enabled = enabled },
		func(g blockgroup.Group) (blockgroup.CheckState, blockgroup.CheckState) {
			return g.Show, blockgroup.StateOf(enabled)
		})
}

// SetGroupShow switches every block under id to Show or Hide
func (s *Script) SetGroupShow(id blockgroup.GroupID, show bool) error {
	action := Hide
	if show {
		action = Show
	}
	return s.applyToGroup(id, func(b *Block) { b.Action = action },
		func(g blockgroup.Group) (blockgroup.CheckState, blockgroup.CheckState) {
			return blockgroup.StateOf(show), g.Enabled
		})
}

func (s *Script) applyToGroup(id blockgroup.GroupID, apply func(*Block),
	state func(blockgroup.Group) (blockgroup.CheckState, blockgroup.CheckState)) error {
	if s.Groups == nil || !s.Groups.Contains(id) {
		return fmt.Errorf("%w: %d", blockgroup.ErrUnknownGroup, id)
	}
	for _, b := range s.BlocksInGroup(id) {
		apply(b)
	}
	for _, gid := range s.Groups.Descendants(id) {
		g, _ := s.Groups.Get(gid)
		show, enabled := state(g)
		if err := s.Groups.SetState(gid, show, enabled); err != nil {
			return err
		}
	}
	s.Groups.RecomputeChecked()
	return nil
}

// RemoveGroup removes a group subtree and clears the references of the
// blocks that pointed into it
func (s *Script) RemoveGroup(id blockgroup.GroupID) error {
	if s.Groups == nil {
		return fmt.Errorf("%w: %d", blockgroup.ErrUnknownGroup, id)
	}
	removed, err := s.Groups.Remove(id)
	if err != nil {
		return err
	}
	gone := make(map[blockgroup.GroupID]bool, len(removed))
	for _, g := range removed {
		gone[g] = true
	}
	for _, b := range s.Blocks {
		if gone[b.Group] {
			b.Group = blockgroup.NoGroup
		}
	}
	s.Groups.RecomputeChecked()
	return nil
}
