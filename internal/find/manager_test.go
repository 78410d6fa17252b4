package find

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidelist/internal/entry"
	"github.com/bethropolis/tidelist/internal/highlighter"
)

type testList struct {
	*entry.List
	selected int
}

func (l *testList) Entries() []entry.Entry { return l.Items() }
func (l *testList) Selected() int { return l.selected }
func (l *testList) SetAt(i int, e entry.Entry) error { return l.Set(i, e) }

func newTestList(t *testing.T, texts ...string) *testList {
	t.Helper()
	l := &testList{List: entry.NewList(), selected: -1}
	for _, s := range texts {
		_, err := l.PushBack(entry.New(s))
		require.NoError(t, err)
	}
	return l
}

func TestFindNextWraps(t *testing.T) {
	l := newTestList(t, "milk", "eggs", "oat milk", "bread")
	m := NewManager(l)

	_, _, err := m.FindNext(true)
	assert.ErrorIs(t, err, ErrNoPattern)

	require.NoError(t, m.Search("milk"))
	idx, found, err := m.FindNext(true)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, idx, "nothing selected starts at the top")

	l.selected = 0
	idx, _, _ = m.FindNext(true)
	assert.Equal(t, 2, idx)
	l.selected = 2
	idx, _, _ = m.FindNext(true)
	assert.Equal(t, 0, idx, "wraps to the top")
	idx, _, _ = m.FindNext(false)
	assert.Equal(t, 0, idx)
	l.selected = 0
	idx, _, _ = m.FindNext(false)
	assert.Equal(t, 2, idx, "wraps to the bottom")

	l.selected = -1
	idx, _, _ = m.FindNext(false)
	assert.Equal(t, 2, idx, "nothing selected starts at the bottom")

	require.NoError(t, m.Search("toast"))
	_, found, err = m.FindNext(true)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSearchHighlights(t *testing.T) {
	l := newTestList(t, "milk milk", "eggs", "café milk")
	m := NewManager(l)

	assert.Error(t, m.Search("(unclosed"))
	assert.False(t, m.Active())

	require.NoError(t, m.Search("milk"))
	assert.True(t, m.HasHighlights())
	assert.Equal(t, highlighter.Result{
		0: {{StartCol: 0, EndCol: 4, StyleName: SearchStyle}, {StartCol: 5, EndCol: 9, StyleName: SearchStyle}},
		2: {{StartCol: 5, EndCol: 9, StyleName: SearchStyle}},
	}, m.GetHighlights(), "columns count runes, not bytes")

	require.NoError(t, l.Set(1, entry.New("milkshake")))
	m.Refresh()
	assert.Len(t, m.GetHighlights(), 3)

	m.ClearHighlights()
	assert.False(t, m.Active())
	assert.Nil(t, m.GetHighlights())
	assert.Equal(t, "milk", m.Term(), "pattern survives for FindNext")

	require.NoError(t, m.Search(""))
	assert.Equal(t, "", m.Term())
}

func TestParseSubstituteCommand(t *testing.T) {
	p, r, g, err := ParseSubstituteCommand("/a/b/g")
	require.NoError(t, err)
	assert.Equal(t, "a", p)
	assert.Equal(t, "b", r)
	assert.True(t, g)

	p, r, g, err = ParseSubstituteCommand("/a b/")
	require.NoError(t, err)
	assert.Equal(t, "a b", p)
	assert.Equal(t, "", r)
	assert.False(t, g)

	_, _, _, err = ParseSubstituteCommand("a/b/")
	assert.Error(t, err)
	_, _, _, err = ParseSubstituteCommand("//b/")
	assert.Error(t, err)
	_, _, _, err = ParseSubstituteCommand("/a")
	assert.Error(t, err)
}

func TestReplaceIsOneUndoStep(t *testing.T) {
	l := newTestList(t, "a-a", "b", "a")
	require.NoError(t, l.Set(1, entry.Entry{Text: "b", Done: true}))
	depth := l.Depth()
	m := NewManager(l)

	n, err := m.Replace("a", "x", false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "x-a", l.Items()[0].Text)
	assert.Equal(t, depth+1, l.Depth())

	n, err = m.Replace("(.)-(.)", "$2+$1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "a+x", l.Items()[0].Text)

	n, err = m.Replace("zzz", "y", true)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, depth+2, l.Depth(), "no match records nothing")

	_, err = m.Replace("", "y", true)
	assert.Error(t, err)
	_, err = m.Replace("[", "y", true)
	assert.Error(t, err)

	ok, err := l.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = l.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []entry.Entry{{Text: "a-a"}, {Text: "b", Done: true}, {Text: "a"}}, l.Items())
}

func TestReplaceKeepsDoneFlag(t *testing.T) {
	l := newTestList(t, "buy milk")
	require.NoError(t, l.Set(0, entry.Entry{Text: "buy milk", Done: true}))
	m := NewManager(l)

	_, err := m.Replace("milk", "cream", true)
	require.NoError(t, err)
	assert.Equal(t, entry.Entry{Text: "buy cream", Done: true}, l.Items()[0])
}
