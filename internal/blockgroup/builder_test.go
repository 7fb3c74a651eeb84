package blockgroup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Builder, *Tree) {
	t.Helper()
	tree := NewTree()
	b := NewBuilder()
	b.Initialise(tree)
	return b, tree
}

func TestIntegratePathIsIdempotent(t *testing.T) {
	b, tree := newSession(t)

	first, err := b.IntegratePath([]string{"Weapons", "Swords"}, true, true)
	require.NoError(t, err)
	second, err := b.IntegratePath([]string{"Weapons", "Swords"}, false, true)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 3, tree.Len(), "root, Weapons and Swords")

	weapons, ok := tree.Child(RootID, "Weapons")
	require.True(t, ok)
	g, _ := tree.Get(weapons)
	assert.Len(t, g.Children, 1)

	leaf, _ := tree.Get(second)
	assert.Equal(t, Checked, leaf.Show, "first call's show value wins")
}

func TestIntegratePathKeepsFirstSeenOrder(t *testing.T) {
	b, tree := newSession(t)

	paths := [][]string{
		{"Currency", "Low"},
		{"Maps"},
		{"Currency", "High"},
		{"Currency", "Low"},
		{"Armour"},
		{"Currency", "Mid"},
	}
	for _, p := range paths {
		_, err := b.IntegratePath(p, true, true)
		require.NoError(t, err)
	}

	root, _ := tree.Get(RootID)
	var top []string
	for _, c := range root.Children {
		g, _ := tree.Get(c)
		top = append(top, g.Name)
	}
	assert.Equal(t, []string{"Currency", "Maps", "Armour"}, top)

	currency, _ := tree.Child(RootID, "Currency")
	g, _ := tree.Get(currency)
	var names []string
	for _, c := range g.Children {
		child, _ := tree.Get(c)
		names = append(names, child.Name)
	}
	assert.Equal(t, []string{"Low", "High", "Mid"}, names)
}

func TestIntegratePathEmpty(t *testing.T) {
	b, tree := newSession(t)

	id, err := b.IntegratePath(nil, true, true)
	require.NoError(t, err)
	assert.Equal(t, NoGroup, id)

	id, err = b.IntegratePath([]string{" ", ""}, true, true)
	require.NoError(t, err)
	assert.Equal(t, NoGroup, id)
	assert.Equal(t, 1, tree.Len())
}

func TestIntegratePathAdvanced(t *testing.T) {
	b, tree := newSession(t)

	plain, err := b.IntegratePath([]string{"Gems"}, true, true)
	require.NoError(t, err)
	advanced, err := b.IntegratePath([]string{"~ Gems"}, true, true)
	require.NoError(t, err)

	assert.NotEqual(t, plain, advanced)
	g, _ := tree.Get(advanced)
	assert.True(t, g.Advanced)
	assert.Equal(t, "Gems", g.Name)
	assert.Equal(t, []string{"~Gems"}, tree.Path(advanced))
}

func TestBuilderRequiresSession(t *testing.T) {
	b := NewBuilder()

	_, err := b.IntegratePath([]string{"A"}, true, true)
	assert.ErrorIs(t, err, ErrNotInitialised)
	assert.ErrorIs(t, b.PropagateCheckedStates(), ErrNotInitialised)

	b.Initialise(NewTree())
	_, err = b.IntegratePath([]string{"A"}, true, true)
	assert.NoError(t, err)

	b.Cleanup()
	assert.Nil(t, b.Tree())
	_, err = b.PathOf(RootID)
	assert.ErrorIs(t, err, ErrNotInitialised)
}

func TestBuilderSessionsDoNotLeak(t *testing.T) {
	b := NewBuilder()

	first := NewTree()
	b.Initialise(first)
	_, err := b.IntegratePath([]string{"A", "B"}, true, true)
	require.NoError(t, err)
	b.Cleanup()

	second := NewTree()
	b.Initialise(second)
	_, err = b.IntegratePath([]string{"C"}, true, true)
	require.NoError(t, err)
	b.Cleanup()

	assert.Equal(t, 3, first.Len())
	assert.Equal(t, 2, second.Len())
	_, ok := second.Find([]string{"A"})
	assert.False(t, ok)
}

func TestPropagateCheckedStates(t *testing.T) {
	tests := []struct {
		name     string
		children []bool
		expected CheckState
	}{
		{"all checked", []bool{true, true}, Checked},
		{"none checked", []bool{false, false}, Unchecked},
		{"mixed", []bool{true, false}, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, tree := newSession(t)
			for i, show := range tt.children {
				_, err := b.IntegratePath([]string{"Parent", string(rune('a' + i))}, show, true)
				require.NoError(t, err)
			}
			require.NoError(t, b.PropagateCheckedStates())

			parent, _ := tree.Find([]string{"Parent"})
			g, _ := tree.Get(parent)
			assert.Equal(t, tt.expected, g.Show)
			assert.Equal(t, Checked, g.Enabled)
		})
	}
}

func TestPropagateKeepsLeafState(t *testing.T) {
	b, tree := newSession(t)

	leaf, err := b.IntegratePath([]string{"Lonely"}, false, true)
	require.NoError(t, err)
	require.NoError(t, b.PropagateCheckedStates())

	g, _ := tree.Get(leaf)
	assert.Equal(t, Unchecked, g.Show)
}

func TestPropagateIndeterminateBubblesUp(t *testing.T) {
	b, tree := newSession(t)

	for _, p := range []struct {
		path []string
		show bool
	}{
		{[]string{"A", "B", "x"}, true},
		{[]string{"A", "C"}, true},
		{[]string{"A", "B", "y"}, false},
	} {
		_, err := b.IntegratePath(p.path, p.show, true)
		require.NoError(t, err)
	}
	require.NoError(t, b.PropagateCheckedStates())

	a, _ := tree.Find([]string{"A"})
	g, _ := tree.Get(a)
	assert.Equal(t, Indeterminate, g.Show)
}

func TestPathOf(t *testing.T) {
	b, _ := newSession(t)

	id, err := b.IntegratePath([]string{"Currency", "~Shards", "Low"}, true, true)
	require.NoError(t, err)

	path, err := b.PathOf(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Currency", "~Shards", "Low"}, path)

	path, err = b.PathOf(NoGroup)
	require.NoError(t, err)
	assert.Nil(t, path)

	_, err = b.PathOf(GroupID(42))
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestBuilderEdits(t *testing.T) {
	b, tree := newSession(t)

	low, _ := b.IntegratePath([]string{"Currency", "Low"}, true, true)
	high, _ := b.IntegratePath([]string{"Currency", "High"}, true, true)

	assert.ErrorIs(t, b.RenameGroup(low, "High"), ErrDuplicateName)
	require.NoError(t, b.RenameGroup(low, "Cheap"))
	assert.Equal(t, []string{"Currency", "Cheap"}, tree.Path(low))

	removed, err := b.RemoveGroup(high)
	require.NoError(t, err)
	assert.Equal(t, []GroupID{high}, removed)
	assert.False(t, tree.Contains(high))

	_, err = b.RemoveGroup(RootID)
	assert.ErrorIs(t, err, ErrRootGroup)

	// the freed name can be integrated again as a new group
	again, err := b.IntegratePath([]string{"Currency", "High"}, true, true)
	require.NoError(t, err)
	assert.NotEqual(t, high, again)
}
