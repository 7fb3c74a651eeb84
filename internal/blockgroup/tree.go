package blockgroup

import (
	"errors"
	"fmt"
	"strings"
)

// GroupID addresses a group inside its Tree
type GroupID int

const (
	// NoGroup marks a block that carries no group path
	NoGroup GroupID = -1
	// RootID is the id of every tree's root
	RootID GroupID = 0
)

// AdvancedPrefix marks an advanced group name in a group path
const AdvancedPrefix = "~"

// Tree errors
var (
	ErrUnknownGroup  = errors.New("unknown block group")
	ErrRootGroup     = errors.New("operation not allowed on the root group")
	ErrDuplicateName = errors.New("a sibling group with that name already exists")
	ErrEmptyName     = errors.New("empty group name")
)

// CheckState is the tri-state checkbox value of a group
type CheckState int

const (
	Unchecked CheckState = iota
	Checked
	Indeterminate
)

// StateOf converts a plain flag to a CheckState
func StateOf(b bool) CheckState {
	if b {
		return Checked
	}
	return Unchecked
}

func (s CheckState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	}
	return "unchecked"
}

// Group is one node of the hierarchy
type Group struct {
	Name     string
	Parent   GroupID
	Children []GroupID
	Advanced bool
	Show     CheckState // whether blocks in the group are shown
	Enabled  CheckState // whether blocks in the group are enabled

	removed bool
}

// IsLeaf reports whether the group has no children
func (g Group) IsLeaf() bool {
	return len(g.Children) == 0
}

// Segment returns the group's name as it appears in a group path
func (g Group) Segment() string {
	if g.Advanced {
		return AdvancedPrefix + g.Name
	}
	return g.Name
}

type childKey struct {
	parent  GroupID
	segment string
}

// Tree is an arena of groups. Ids are stable for the lifetime of the tree,
// removed groups keep their slot.
type Tree struct {
	groups []Group
	index  map[childKey]GroupID
}

// NewTree creates a tree holding only the root group
func NewTree() *Tree {
	return &Tree{
		groups: []Group{{Name: "Root", Parent: NoGroup, Show: Checked, Enabled: Checked}},
		index:  make(map[childKey]GroupID),
	}
}

// Root returns the root group id
func (t *Tree) Root() GroupID {
	return RootID
}

// Len returns the number of live groups, root included
func (t *Tree) Len() int {
	n := 0
	for _, g := range t.groups {
		if !g.removed {
			n++
		}
	}
	return n
}

// Contains reports whether id names a group reachable from the root
func (t *Tree) Contains(id GroupID) bool {
	return id >= 0 && int(id) < len(t.groups) && !t.groups[id].removed
}

// Get returns a copy of the group
func (t *Tree) Get(id GroupID) (Group, bool) {
	if !t.Contains(id) {
		return Group{}, false
	}
	g := t.groups[id]
	g.Children = append([]GroupID(nil), g.Children...)
	return g, true
}

// Child looks up a direct child by its path segment
func (t *Tree) Child(parent GroupID, segment string) (GroupID, bool) {
	id, ok := t.index[childKey{parent, segment}]
	return id, ok
}

// AddChild creates a child group under parent. The segment may carry the
// advanced prefix.
func (t *Tree) AddChild(parent GroupID, segment string, show, enabled bool) (GroupID, error) {
	if !t.Contains(parent) {
		return NoGroup, fmt.Errorf("%w: %d", ErrUnknownGroup, parent)
	}
	name, advanced := splitSegment(segment)
	if name == "" {
		return NoGroup, ErrEmptyName
	}
	key := childKey{parent, segmentOf(name, advanced)}
	if _, exists := t.index[key]; exists {
		return NoGroup, fmt.Errorf("%w: %q", ErrDuplicateName, key.segment)
	}

	id := GroupID(len(t.groups))
	t.groups = append(t.groups, Group{
		Name:     name,
		Parent:   parent,
		Advanced: advanced,
		Show:     StateOf(show),
		Enabled:  StateOf(enabled),
	})
	t.groups[parent].Children = append(t.groups[parent].Children, id)
	t.index[key] = id
	return id, nil
}

// Path returns the path segments from the root (exclusive) down to id
func (t *Tree) Path(id GroupID) []string {
	if !t.Contains(id) || id == RootID {
		return nil
	}
	var path []string
	for cur := id; cur != RootID && cur != NoGroup; cur = t.groups[cur].Parent {
		path = append(path, t.groups[cur].Segment())
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Rename changes a group's name, keeping sibling names unique
func (t *Tree) Rename(id GroupID, segment string) error {
	if id == RootID {
		return ErrRootGroup
	}
	if !t.Contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownGroup, id)
	}
	name, advanced := splitSegment(segment)
	if name == "" {
		return ErrEmptyName
	}
	g := &t.groups[id]
	newKey := childKey{g.Parent, segmentOf(name, advanced)}
	oldKey := childKey{g.Parent, g.Segment()}
	if newKey == oldKey {
		return nil
	}
	if _, exists := t.index[newKey]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, newKey.segment)
	}
	delete(t.index, oldKey)
	g.Name, g.Advanced = name, advanced
	t.index[newKey] = id
	return nil
}

// Remove detaches id and its whole subtree and returns the removed ids
func (t *Tree) Remove(id GroupID) ([]GroupID, error) {
	if id == RootID {
		return nil, ErrRootGroup
	}
	if !t.Contains(id) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownGroup, id)
	}
	removed := t.Descendants(id)

	parent := &t.groups[t.groups[id].Parent]
	for i, c := range parent.Children {
		if c == id {
			parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
			break
		}
	}
	for _, r := range removed {
		g := &t.groups[r]
		delete(t.index, childKey{g.Parent, g.Segment()})
		g.removed = true
	}
	return removed, nil
}

// Descendants returns id followed by every group below it, pre-order
func (t *Tree) Descendants(id GroupID) []GroupID {
	if !t.Contains(id) {
		return nil
	}
	out := []GroupID{id}
	for _, c := range t.groups[id].Children {
		out = append(out, t.Descendants(c)...)
	}
	return out
}

// SetState stores the checkbox states of a group. States stored on groups
// with children are overwritten by the next RecomputeChecked.
func (t *Tree) SetState(id GroupID, show, enabled CheckState) error {
	if !t.Contains(id) {
		return fmt.Errorf("%w: %d", ErrUnknownGroup, id)
	}
	t.groups[id].Show = show
	t.groups[id].Enabled = enabled
	return nil
}

// RecomputeChecked derives the tri-state of every group with children from
// its children, post-order. Leaves keep their stored state.
func (t *Tree) RecomputeChecked() {
	t.recompute(RootID)
}

func (t *Tree) recompute(id GroupID) {
	g := &t.groups[id]
	if g.IsLeaf() {
		return
	}
	show := make([]CheckState, 0, len(g.Children))
	enabled := make([]CheckState, 0, len(g.Children))
	for _, c := range g.Children {
		t.recompute(c)
		show = append(show, t.groups[c].Show)
		enabled = append(enabled, t.groups[c].Enabled)
	}
	g.Show = combine(show)
	g.Enabled = combine(enabled)
}

func combine(states []CheckState) CheckState {
	all, none := true, true
	for _, s := range states {
		switch s {
		case Checked:
			none = false
		case Unchecked:
			all = false
		default:
			return Indeterminate
		}
	}
	switch {
	case all:
		return Checked
	case none:
		return Unchecked
	}
	return Indeterminate
}

// Walk visits every live group pre-order, children in insertion order
func (t *Tree) Walk(fn func(id GroupID, g Group, depth int)) {
	t.walk(RootID, 0, fn)
}

func (t *Tree) walk(id GroupID, depth int, fn func(GroupID, Group, int)) {
	g, _ := t.Get(id)
	fn(id, g, depth)
	for _, c := range g.Children {
		t.walk(c, depth+1, fn)
	}
}

// Find resolves a path of segments to an existing group
func (t *Tree) Find(path []string) (GroupID, bool) {
	cur := RootID
	for _, seg := range path {
		name, advanced := splitSegment(seg)
		if name == "" {
			continue
		}
		next, ok := t.Child(cur, segmentOf(name, advanced))
		if !ok {
			return NoGroup, false
		}
		cur = next
	}
	return cur, true
}

func splitSegment(segment string) (string, bool) {
	segment = strings.TrimSpace(segment)
	if strings.HasPrefix(segment, AdvancedPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(segment, AdvancedPrefix)), true
	}
	return segment, false
}

func segmentOf(name string, advanced bool) string {
	if advanced {
		return AdvancedPrefix + name
	}
	return name
}
