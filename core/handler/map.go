package handler

import "reflect"

// Map routes messages to handlers by exact runtime type. At most one
// handler exists per type; inserting again replaces the previous one,
// running its release hook first.
type Map struct {
	entries map[reflect.Type]table
}

// New creates an empty Map.
func New() *Map {
	return &Map{entries: make(map[reflect.Type]table)}
}

// Insert registers fn as the handler for messages of type T, replacing any
// previous handler for T.
func Insert[T any](m *Map, fn func(T)) {
	InsertReleasable(m, fn, nil)
}

// InsertReleasable registers fn together with a release hook. The hook runs
// exactly once, when the entry is removed, replaced or the map is closed.
func InsertReleasable[T any](m *Map, fn func(T), release func()) {
	key := keyOf[T]()
	if prev, ok := m.entries[key]; ok {
		prev.destroy()
	}
	m.entries[key] = newTable(fn, release)
}

// Remove drops the handler for T, running its release hook. Removing an
// unregistered type is a no-op.
func Remove[T any](m *Map) {
	key := keyOf[T]()
	if prev, ok := m.entries[key]; ok {
		prev.destroy()
		delete(m.entries, key)
	}
}

// Registered reports whether a handler for T is currently present.
func Registered[T any](m *Map) bool {
	_, ok := m.entries[keyOf[T]()]
	return ok
}

// Dispatch routes msg to the handler registered for its dynamic type.
// It returns true when a handler ran and false when none was registered,
// in which case the message is dropped with no other effect. A nil msg is
// always a miss.
func (m *Map) Dispatch(msg any) bool {
	if msg == nil {
		return false
	}
	ent, ok := m.entries[reflect.TypeOf(msg)]
	if !ok {
		return false
	}
	ent.invoke(msg)
	return true
}

// Len returns the number of registered handlers.
func (m *Map) Len() int { return len(m.entries) }

// Close releases every registered handler and empties the map. Closing an
// already empty map is a no-op.
func (m *Map) Close() {
	for key, ent := range m.entries {
		ent.destroy()
		delete(m.entries, key)
	}
}
