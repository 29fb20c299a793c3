// Package handler implements an open type switch: a registry mapping the
// runtime type of a message to the one handler registered for it.
//
// Unlike a switch statement the set of handled types is not closed; callers
// register reactions for new message types at runtime. Keys are concrete
// types only; an interface type never matches, because dispatch keys off
// the dynamic type of the incoming value.
//
// A Map performs no locking. It is single-threaded by contract; an owner
// that shares one across goroutines must serialize access itself (see
// core/router for the locked wrapper).
package handler
