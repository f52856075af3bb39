// Package events provides types and interfaces for observing job progress.
//
// The dispatcher emits a StageChangedEvent after every committed status write.
// Handlers registered with an EventEmitter receive those events without the
// dispatcher knowing who listens.
//
// The primary components are:
// - StageChangedEvent: a single committed stage transition of a job
// - EventHandler: interface for components that handle events
// - EventEmitter: interface for components that emit events
package events
