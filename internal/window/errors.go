package window

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyMaterialized is returned by a second Materialize call. A
	// window materializes at most once, even if the first attempt failed.
	ErrAlreadyMaterialized = errors.New("window already materialized")

	// ErrFrozen is returned by Update once Materialize has been called.
	ErrFrozen = errors.New("window options are frozen after materialize")

	// ErrConstruction matches every *ConstructionError.
	ErrConstruction = errors.New("window construction failed")
)

// Stage names the step of Materialize that failed.
type Stage string

const (
	StageStorage Stage = "storage"
	StageWindow  Stage = "window"
	StageSurface Stage = "surface"
	StageDriver  Stage = "driver"
)

// ConstructionError is a fatal failure to build the native window, its
// surface, the storage context or the event loop. Nothing is retried.
type ConstructionError struct {
	Stage Stage
	Err   error
}

func (e *ConstructionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("create %s: %v", e.Stage, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports ErrConstruction as a match so callers can test the category.
func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}
