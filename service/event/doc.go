// Package event provides typed events, a synchronous name based dispatcher
// and an optional queue backed publisher/listener pair for asynchronous
// consumers such as audit logging.
package event
