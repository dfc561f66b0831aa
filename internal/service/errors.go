// Package service implements the conversational core: the session state
// machine, profile collection, intent detection, meal-plan generation and
// editing, and the user/favourite-meal business logic.
package service

// ValidationError marks a client-input failure detected before any model
// call, such as a missing required goal.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func validationErr(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}
