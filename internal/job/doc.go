// Package job runs embedding jobs in the background.
//
// A Dispatcher accepts a filter, records a new job in the job store and hands
// it to a bounded pool of workers. Each worker drives the job through its
// stages (recipe selection, matrix construction, embedding) and records every
// stage in the store as soon as it is reached, so clients can poll progress
// while the work is still running.
package job
