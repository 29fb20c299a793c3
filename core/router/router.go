// Package router wraps the handler registry with the synchronization,
// logging and eventing a long-lived service needs. The registry itself is
// single-threaded by contract; Router is the owner that imposes the
// single-writer/multi-reader locking around it.
package router

import (
	"reflect"
	"sync"
	"time"

	"github.com/typemux/typemux/core/events"
	"github.com/typemux/typemux/core/handler"
	"github.com/typemux/typemux/core/logger"
	"github.com/typemux/typemux/internal/eventbus"
)

// Router routes messages to per-type handlers. Safe for concurrent use.
type Router struct {
	mu       sync.RWMutex
	handlers *handler.Map
	bus      eventbus.EventBus
	log      logger.Logger
}

// New creates a Router. bus may be nil when nobody listens; log may be nil
// for a silent router.
func New(bus eventbus.EventBus, log logger.Logger) *Router {
	if log == nil {
		log = nopLogger{}
	}
	return &Router{handlers: handler.New(), bus: bus, log: log}
}

// Handle registers fn for messages of type T, replacing any previous
// handler for T.
func Handle[T any](r *Router, fn func(T)) {
	HandleReleasable(r, fn, nil)
}

// HandleReleasable registers fn with a release hook that runs when the
// handler is replaced, unregistered or the router is closed.
func HandleReleasable[T any](r *Router, fn func(T), release func()) {
	name := typeName[T]()
	r.mu.Lock()
	action := "insert"
	if handler.Registered[T](r.handlers) {
		action = "replace"
	}
	handler.InsertReleasable(r.handlers, fn, release)
	r.mu.Unlock()

	r.log.Debugw("handler registered", map[string]any{"message_type": name, "action": action})
	r.publish(events.RegistryEvent{MessageType: name, Action: action})
}

// Unhandle removes the handler for T, if any.
func Unhandle[T any](r *Router) {
	name := typeName[T]()
	r.mu.Lock()
	present := handler.Registered[T](r.handlers)
	handler.Remove[T](r.handlers)
	r.mu.Unlock()

	if present {
		r.publish(events.RegistryEvent{MessageType: name, Action: "remove"})
	}
}

// Handles reports whether a handler for T is currently registered.
func Handles[T any](r *Router) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return handler.Registered[T](r.handlers)
}

// Dispatch routes msg to the handler for its runtime type and reports
// whether one ran. Handlers execute on the caller's goroutine while a read
// lock is held, so handlers must not register or unregister handlers.
func (r *Router) Dispatch(msg any) bool {
	start := time.Now()
	r.mu.RLock()
	handled := r.handlers.Dispatch(msg)
	r.mu.RUnlock()
	latency := time.Since(start)

	name := "<nil>"
	if msg != nil {
		name = reflect.TypeOf(msg).String()
	}
	if !handled {
		r.log.Debugf("no handler for %s, message dropped", name)
	}
	r.publish(events.DispatchEvent{MessageType: name, Handled: handled, Latency: latency})
	return handled
}

// Len returns the number of registered handlers.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers.Len()
}

// Close releases all registered handlers. The router routes nothing
// afterwards; further Dispatch calls miss.
func (r *Router) Close() {
	r.mu.Lock()
	r.handlers.Close()
	r.mu.Unlock()
}

func (r *Router) publish(e eventbus.Event) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

var _ logger.Logger = nopLogger{}
