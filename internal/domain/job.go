package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// JobID identifies a job. IDs are assigned by the job store at creation.
type JobID int64

// String returns the decimal form of the ID, as used on the wire.
func (id JobID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseJobID parses a decimal job ID as it appears in request paths.
func ParseJobID(s string) (JobID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidJobID, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidJobID, n)
	}
	return JobID(n), nil
}

// Filter is the caller-supplied input of an embedding job. It is immutable
// once the job has been submitted.
type Filter struct {
	// Tag optionally restricts recipe selection to a category.
	Tag *string `json:"tag"`

	// Ingredients is the ordered ingredient list used to build the
	// co-occurrence matrix.
	Ingredients []string `json:"ingredients"`

	// Algorithm names the embedding strategy. It is recorded, not dispatched on.
	Algorithm string `json:"algorithm"`
}

// Validate checks that the filter carries an algorithm and no blank ingredients.
func (f Filter) Validate() error {
	if strings.TrimSpace(f.Algorithm) == "" {
		return fmt.Errorf("%w: algorithm is required", ErrValidation)
	}
	if f.Ingredients == nil {
		return fmt.Errorf("%w: ingredients are required", ErrValidation)
	}
	for i, ing := range f.Ingredients {
		if strings.TrimSpace(ing) == "" {
			return fmt.Errorf("%w: ingredient %d is empty", ErrValidation, i)
		}
	}
	return nil
}

// TagOrNone returns the tag, or "None" when no tag was given.
func (f Filter) TagOrNone() string {
	if f.Tag == nil {
		return "None"
	}
	return *f.Tag
}

// Clone returns a deep copy so callers cannot mutate a stored filter.
func (f Filter) Clone() Filter {
	c := Filter{Algorithm: f.Algorithm}
	if f.Tag != nil {
		tag := *f.Tag
		c.Tag = &tag
	}
	if f.Ingredients != nil {
		c.Ingredients = append(make([]string, 0, len(f.Ingredients)), f.Ingredients...)
	}
	return c
}

// Job is a single accepted embedding request tracked through the stage pipeline.
type Job struct {
	ID        JobID     `json:"id"`
	Status    Stage     `json:"status"`
	Filter    Filter    `json:"filter"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobStatus is the externally visible progress of a job.
type JobStatus struct {
	Stage     Stage     `json:"status"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusOf projects a job onto its status.
func (j *Job) StatusOf() JobStatus {
	return JobStatus{
		Stage:     j.Status,
		Error:     j.Error,
		UpdatedAt: j.UpdatedAt,
	}
}
