package observable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tidelist/internal/core/vector"
)

type captured struct {
	changes []Change[string]
	states  [][]string
}

func watch(c *Collection[string]) *captured {
	got := &captured{}
	c.Subscribe(func(src *Collection[string], ch Change[string]) {
		got.changes = append(got.changes, ch)
		got.states = append(got.states, src.Items())
	})
	return got
}

type recorderFunc[T any] func(Change[T])

func (f recorderFunc[T]) Record(ch Change[T]) { f(ch) }

func TestChangeRecords(t *testing.T) {
	c := New[string]()
	got := watch(c)

	_, err := c.PushBack("x")
	require.NoError(t, err)
	require.NoError(t, c.Insert(0, "w"))
	require.NoError(t, c.Set(1, "y"))
	_, err = c.Remove(0)
	require.NoError(t, err)
	_, ok, err := c.PopBack()
	require.NoError(t, err)
	require.True(t, ok)

	require.Len(t, got.changes, 5)

	ins := got.changes[0]
	assert.Equal(t, Insert, ins.Type)
	assert.Equal(t, -1, ins.OldIndex)
	assert.True(t, ins.OldValue.IsAbsent())
	assert.Equal(t, 0, ins.NewIndex)
	v, ok := ins.NewValue.One()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	assert.Equal(t, Change[string]{Type: Insert, OldIndex: -1, NewIndex: 0, NewValue: Single("w")}, got.changes[1])
	assert.Equal(t, Change[string]{Type: Set, OldIndex: 1, OldValue: Single("x"), NewIndex: 1, NewValue: Single("y")}, got.changes[2])
	assert.Equal(t, Change[string]{Type: Remove, OldIndex: 0, OldValue: Single("w"), NewIndex: -1}, got.changes[3])
	assert.Equal(t, Change[string]{Type: Remove, OldIndex: 0, OldValue: Single("y"), NewIndex: -1}, got.changes[4])

	// Listeners observe post-mutation state.
	assert.Equal(t, []string{"x"}, got.states[0])
	assert.Equal(t, []string{"w", "x"}, got.states[1])
	assert.Equal(t, []string{}, got.states[4])
}

func TestClearAndSwapRecords(t *testing.T) {
	c := New("a", "b")
	got := watch(c)

	other := vector.New("c")
	require.NoError(t, c.Swap(other))
	assert.Equal(t, []string{"a", "b"}, other.Items())
	require.NoError(t, c.Clear())

	require.Len(t, got.changes, 2)
	sw := got.changes[0]
	assert.Equal(t, Swap, sw.Type)
	assert.Equal(t, 0, sw.OldIndex)
	assert.Equal(t, 0, sw.NewIndex)
	before, _ := sw.OldValue.Seq()
	after, _ := sw.NewValue.Seq()
	assert.Equal(t, []string{"a", "b"}, before)
	assert.Equal(t, []string{"c"}, after)

	cl := got.changes[1]
	assert.Equal(t, Clear, cl.Type)
	removed, ok := cl.OldValue.Seq()
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, removed)
	assert.True(t, cl.NewValue.IsAbsent())
}

func TestFailedMutationEmitsNothing(t *testing.T) {
	c := New("a")
	got := watch(c)

	err := c.Insert(5, "z")
	assert.True(t, errors.Is(err, vector.ErrIndexOutOfRange))
	_, err = c.Remove(1)
	assert.Error(t, err)
	assert.Error(t, c.Set(-1, "z"))

	_, ok, err := New[string]().PopBack()
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, got.changes)
}

func TestRemoveFunc(t *testing.T) {
	c := New("a", "b", "c")
	got := watch(c)

	i, err := c.RemoveFunc(func(s string) bool { return s == "b" })
	require.NoError(t, err)
	assert.Equal(t, 1, i)

	i, err = c.RemoveFunc(func(s string) bool { return s == "zzz" })
	require.NoError(t, err)
	assert.Equal(t, -1, i)

	assert.Len(t, got.changes, 1)
	assert.Equal(t, []string{"a", "c"}, c.Items())
}

func TestRecorderRunsBeforeListeners(t *testing.T) {
	c := New[int]()
	var order []string
	c.SetRecorder(recorderFunc[int](func(Change[int]) { order = append(order, "recorder") }))
	c.Subscribe(func(*Collection[int], Change[int]) { order = append(order, "listener") })

	_, err := c.PushBack(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"recorder", "listener"}, order)

	c.SetRecorder(nil)
	_, err = c.PushBack(2)
	require.NoError(t, err)
	assert.Equal(t, []string{"recorder", "listener", "listener"}, order)
}

func TestSubscribeOrderAndUnsubscribe(t *testing.T) {
	c := New[int]()
	var order []int
	id1 := c.Subscribe(func(*Collection[int], Change[int]) { order = append(order, 1) })
	c.Subscribe(func(*Collection[int], Change[int]) { order = append(order, 2) })
	assert.Equal(t, 2, c.ListenerCount())

	_, _ = c.PushBack(0)
	assert.Equal(t, []int{1, 2}, order)

	assert.True(t, c.Unsubscribe(id1))
	assert.False(t, c.Unsubscribe(id1))
	_, _ = c.PushBack(0)
	assert.Equal(t, []int{1, 2, 2}, order)
}

func TestListenerIsolation(t *testing.T) {
	c := New[int]()
	reached := false
	c.Subscribe(func(*Collection[int], Change[int]) { panic("boom") })
	c.Subscribe(func(*Collection[int], Change[int]) { reached = true })

	assert.NotPanics(t, func() {
		_, err := c.PushBack(1)
		assert.NoError(t, err)
	})
	assert.True(t, reached)
	assert.False(t, c.Notifying())
}

func TestListenerPropagate(t *testing.T) {
	c := New[int]()
	c.SetListenerPolicy(ListenerPropagate)
	c.Subscribe(func(*Collection[int], Change[int]) { panic("boom") })

	assert.Panics(t, func() { _, _ = c.PushBack(1) })
	assert.False(t, c.Notifying(), "notification depth must unwind with the panic")
	assert.Equal(t, 1, c.Len())
}

func TestParseListenerPolicy(t *testing.T) {
	p, err := ParseListenerPolicy("Propagate")
	require.NoError(t, err)
	assert.Equal(t, ListenerPropagate, p)

	p, err = ParseListenerPolicy("")
	require.NoError(t, err)
	assert.Equal(t, ListenerIsolate, p)

	_, err = ParseListenerPolicy("ignore")
	assert.Error(t, err)
}

func TestReentrantMutationFails(t *testing.T) {
	c := New[int]()
	var inner error
	c.Subscribe(func(src *Collection[int], ch Change[int]) {
		if ch.Type == Insert {
			_, inner = src.PushBack(99)
		}
	})

	_, err := c.PushBack(1)
	require.NoError(t, err)
	assert.True(t, errors.Is(inner, ErrReentrantMutation))
	assert.True(t, errors.Is(inner, ErrInvalidState))
	assert.Equal(t, []int{1}, c.Items())

	// Outside notification the collection is mutable again.
	_, err = c.PushBack(2)
	assert.NoError(t, err)
}

func TestDispose(t *testing.T) {
	c := New(1, 2, 3)
	got := 0
	c.Subscribe(func(*Collection[int], Change[int]) { got++ })

	c.Dispose()
	assert.True(t, c.IsDisposed())
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.ListenerCount())
	assert.Equal(t, 0, got, "dispose clears without notifying")

	assert.NotPanics(t, c.Dispose)
	assert.True(t, c.IsDisposed())

	_, err := c.PushBack(4)
	assert.True(t, errors.Is(err, ErrDisposed))
	assert.True(t, errors.Is(c.Clear(), ErrInvalidState))
}

func TestChangeTypeNames(t *testing.T) {
	for _, ct := range []ChangeType{Insert, Remove, Set, Clear, Swap} {
		parsed, err := ParseChangeType(ct.String())
		require.NoError(t, err)
		assert.Equal(t, ct, parsed)
	}
	_, err := ParseChangeType("add")
	assert.Error(t, err)
	assert.Equal(t, "ChangeType(9)", ChangeType(9).String())
}
