package vector

// Iterator walks a Vector by position. It holds no copy of the elements:
// Next always reads the vector's current storage at the iterator's cursor.
type Iterator[T any] struct {
	v    *Vector[T]
	next int
}

// Iterator returns an iterator positioned before the first element.
func (v *Vector[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{v: v}
}

// Next returns the element at the cursor and advances. ok is false once the
// cursor has passed the current end of the vector.
func (it *Iterator[T]) Next() (val T, ok bool) {
	if it.next >= len(it.v.items) {
		return val, false
	}
	val = it.v.items[it.next]
	it.next++
	return val, true
}

// Index returns the index of the element most recently returned by Next, or -1.
func (it *Iterator[T]) Index() int {
	return it.next - 1
}

// Reset moves the cursor back before the first element.
func (it *Iterator[T]) Reset() {
	it.next = 0
}
