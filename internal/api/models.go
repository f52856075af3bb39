package api

import (
	"time"

	"github.com/phrazzld/recipe-api/internal/domain"
)

// EmbedRequest is the body of POST /embed.
type EmbedRequest struct {
	// Tag restricts recipe selection; null selects every recipe
	Tag         *string  `json:"tag"`
	Ingredients []string `json:"ingredients" validate:"required,dive,required"`
	Algorithm   string   `json:"algorithm"   validate:"required"`
}

// Filter converts the request into a job filter.
func (r EmbedRequest) Filter() domain.Filter {
	return domain.Filter{
		Tag:         r.Tag,
		Ingredients: r.Ingredients,
		Algorithm:   r.Algorithm,
	}
}

// StatusResponse is the body of GET /status/{id}.
type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// JobResponse is the body of GET /jobs/{id}.
type JobResponse struct {
	ID          int64     `json:"id"`
	Status      string    `json:"status"`
	Error       string    `json:"error,omitempty"`
	Tag         *string   `json:"tag"`
	Ingredients []string  `json:"ingredients"`
	Algorithm   string    `json:"algorithm"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func jobToResponse(j *domain.Job) JobResponse {
	return JobResponse{
		ID:          int64(j.ID),
		Status:      string(j.Status),
		Error:       j.Error,
		Tag:         j.Filter.Tag,
		Ingredients: j.Filter.Ingredients,
		Algorithm:   j.Filter.Algorithm,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func statusToResponse(s domain.JobStatus) StatusResponse {
	resp := StatusResponse{Status: string(s.Stage)}
	if s.Stage == domain.StageFailed {
		resp.Error = s.Error
	}
	return resp
}
