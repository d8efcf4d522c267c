package model

import "fmt"

// MalformedInputError marks structurally invalid raw or processed input.
// The owning unit is skipped; siblings are unaffected.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input: %s", e.Reason)
}

// InsufficientDataError marks a series too short to model.
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %d observations, need %d", e.Have, e.Need)
}

// ModelFitError marks a fit that diverged or could not be estimated, e.g. a
// constant price series.
type ModelFitError struct {
	Reason string
}

func (e *ModelFitError) Error() string {
	return fmt.Sprintf("model fit failed: %s", e.Reason)
}
