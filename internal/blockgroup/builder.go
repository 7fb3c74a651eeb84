// Package blockgroup maintains the hierarchy of named block groups that the
// editor overlays on the flat block list through group-path comments.
//
// A Tree is an arena: groups are addressed by GroupID and hold their parent
// and children as ids, so blocks can reference a group without owning it.
// A Builder grows a tree one parse session at a time.
package blockgroup

import (
	"errors"
	"fmt"
)

// ErrNotInitialised is returned when a Builder is used outside an
// Initialise/Cleanup bracket
var ErrNotInitialised = errors.New("block group builder not initialised")

// Builder integrates group paths into a working tree. A Builder holds
// session state and must not be shared between concurrent parses.
type Builder struct {
	tree *Tree
}

// NewBuilder creates a builder with no working tree
func NewBuilder() *Builder {
	return &Builder{}
}

// Initialise sets the working tree for a new parse session
func (b *Builder) Initialise(tree *Tree) {
	b.tree = tree
}

// Cleanup releases the working tree
func (b *Builder) Cleanup() {
	b.tree = nil
}

// Tree returns the working tree, nil outside a session
func (b *Builder) Tree() *Tree {
	return b.tree
}

// IntegratePath walks path from the root, creating missing groups, and
// returns the deepest one. show and enabled only seed groups created by
// this call, existing groups keep their state. An empty path yields NoGroup.
func (b *Builder) IntegratePath(path []string, show, enabled bool) (GroupID, error) {
	if b.tree == nil {
		return NoGroup, ErrNotInitialised
	}

	cur := RootID
	integrated := false
	for _, seg := range path {
		name, advanced := splitSegment(seg)
		if name == "" {
			continue
		}
		segment := segmentOf(name, advanced)
		if next, ok := b.tree.Child(cur, segment); ok {
			cur = next
			integrated = true
			continue
		}
		next, err := b.tree.AddChild(cur, segment, show, enabled)
		if err != nil {
			return NoGroup, fmt.Errorf("integrate %q: %w", segment, err)
		}
		cur = next
		integrated = true
	}

	if !integrated {
		return NoGroup, nil
	}
	return cur, nil
}

// PropagateCheckedStates recomputes the tri-states of the working tree.
// It must run after every block of the session has been integrated.
func (b *Builder) PropagateCheckedStates() error {
	if b.tree == nil {
		return ErrNotInitialised
	}
	b.tree.RecomputeChecked()
	return nil
}

// PathOf returns the group path of id, root exclusive
func (b *Builder) PathOf(id GroupID) ([]string, error) {
	if b.tree == nil {
		return nil, ErrNotInitialised
	}
	if id == NoGroup {
		return nil, nil
	}
	if !b.tree.Contains(id) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, id)
	}
	return b.tree.Path(id), nil
}

// RenameGroup renames a group in the working tree
func (b *Builder) RenameGroup(id GroupID, segment string) error {
	if b.tree == nil {
		return ErrNotInitialised
	}
	return b.tree.Rename(id, segment)
}

// RemoveGroup removes a group and its subtree from the working tree
func (b *Builder) RemoveGroup(id GroupID) ([]GroupID, error) {
	if b.tree == nil {
		return nil, ErrNotInitialised
	}
	return b.tree.Remove(id)
}
