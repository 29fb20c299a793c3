package handler

import "reflect"

// table is the fixed pair of operations bound to one registered handler:
// invoke runs it, destroy releases whatever it owns. Both closures are
// compiled against the concrete message type at registration time, the
// only point where that type is still statically visible.
type table struct {
	invoke  func(msg any)
	destroy func()
}

// newTable boxes fn into a table, erasing its type in a single step. The
// invoke closure carries the package's only type assertion: it assumes its
// argument holds a T. Map.Dispatch is the sole caller and always supplies
// the value whose dynamic type produced the lookup key, so the assertion
// holds by construction.
func newTable[T any](fn func(T), release func()) table {
	return table{
		invoke: func(msg any) { fn(msg.(T)) },
		destroy: func() {
			if release != nil {
				release()
			}
		},
	}
}

// keyOf returns the registry key for T without needing a value of T.
func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
