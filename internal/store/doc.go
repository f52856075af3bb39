// Package store defines the persistence contract for embedding jobs.
// The JobStore interface abstracts the underlying storage from the dispatcher
// and the HTTP layer, so the PostgreSQL and in-memory implementations are
// interchangeable and share one set of error semantics.
package store
