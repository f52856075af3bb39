// Package domain contains the core entities of the recipe embedding service:
// jobs, their immutable filters, the fixed sequence of progress stages a job
// moves through, and the recipe payloads exchanged with the analysis engine.
// It has no dependencies on storage or transport packages.
package domain
