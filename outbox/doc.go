// Package outbox publishes user lifecycle events recorded in the events
// table.
//
// Repositories write events in the same transaction as the user change. A
// Publisher periodically lists the oldest events, emits each to a Sink and
// deletes it once the sink accepted it, so delivery is at-least-once and in
// insertion order.
package outbox
