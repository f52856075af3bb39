package domain

import "fmt"

// Stage is one named point in a job's fixed progress sequence.
type Stage string

// Progress stages in the order a job passes through them. StageFailed sits
// outside the sequence and can follow any non-terminal stage.
const (
	StageSelecting         Stage = "Selecting"
	StageBuildingMatrix    Stage = "BuildingMatrix"
	StageEmbeddingRelation Stage = "EmbeddingRelation"
	StageComplete          Stage = "Complete"
	StageFailed            Stage = "Failed"
)

// pipeline is the forward order of the non-failure stages.
var pipeline = []Stage{
	StageSelecting,
	StageBuildingMatrix,
	StageEmbeddingRelation,
	StageComplete,
}

// Stages returns every known stage, pipeline order first, then StageFailed.
func Stages() []Stage {
	out := make([]Stage, 0, len(pipeline)+1)
	out = append(out, pipeline...)
	return append(out, StageFailed)
}

// ParseStage converts a stored or transmitted stage name into a Stage.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return stage, nil
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	return s == StageFailed || s.ordinal() >= 0
}

// IsTerminal reports whether no further transition may leave s.
func (s Stage) IsTerminal() bool {
	return s == StageComplete || s == StageFailed
}

// Next returns the stage that follows s in the pipeline. It returns false for
// terminal and unknown stages.
func (s Stage) Next() (Stage, bool) {
	i := s.ordinal()
	if i < 0 || i+1 >= len(pipeline) {
		return "", false
	}
	return pipeline[i+1], true
}

// CanTransitionTo reports whether a job at stage s may move to stage to.
// Forward moves must go to the immediate successor; StageFailed is reachable
// from every non-terminal stage.
func (s Stage) CanTransitionTo(to Stage) bool {
	if !s.Valid() || s.IsTerminal() {
		return false
	}
	if to == StageFailed {
		return true
	}
	next, ok := s.Next()
	return ok && next == to
}

// Before reports whether s comes strictly earlier than other in the pipeline.
// StageFailed is not ordered against pipeline stages and always yields false.
func (s Stage) Before(other Stage) bool {
	a, b := s.ordinal(), other.ordinal()
	return a >= 0 && b >= 0 && a < b
}

// AllowedPredecessors returns the stages from which a job may move to to.
// StageSelecting has none: it is only ever assigned at creation.
func AllowedPredecessors(to Stage) []Stage {
	var out []Stage
	for _, from := range Stages() {
		if from.CanTransitionTo(to) {
			out = append(out, from)
		}
	}
	return out
}

func (s Stage) ordinal() int {
	for i, p := range pipeline {
		if p == s {
			return i
		}
	}
	return -1
}
