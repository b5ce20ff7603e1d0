// Package ws streams engine events to WebSocket clients. Each client
// subscribes to one named session and receives every event that session's
// engine emits, serialized as JSON. The hub fans messages out with a
// register/unregister/broadcast loop so connection churn never touches
// the engine goroutine.
package ws
