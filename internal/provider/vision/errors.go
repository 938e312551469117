package vision

import "errors"

var (
	// ErrTimeout marks a request that exceeded the connect or total time envelope.
	ErrTimeout = errors.New("ai request timed out")
	// ErrRequest covers every other transport, HTTP status or decoding failure.
	ErrRequest = errors.New("ai request failed")
	// ErrNoChoices is returned when the completion response carries no choices.
	ErrNoChoices          = errors.New("ai response has no choices")
	ErrAnalysisInProgress = errors.New("an analysis is already in progress")
	ErrInvalidSetting     = errors.New("invalid provider setting")
)
