package types

import "github.com/google/uuid"

// RunID identifies one invocation of the pipeline in logs
type RunID string

func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func (x RunID) String() string { return string(x) }
