// Package memory provides an in-process implementation of store.JobStore.
// Jobs live only as long as the process; it backs tests and single-node
// deployments that do not need durability.
package memory
