package model

import "fmt"

// ValidationError is returned for input rejected before any network call
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.URL == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %q", e.Reason, e.URL)
}

// SubmissionError is returned when the backend rejects a submission or
// cannot be reached.
type SubmissionError struct {
	Op     string // "process" or "batch"
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s submission failed: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s submission failed: %s", e.Op, e.Reason)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// PollFetchError is logged when a status fetch fails; the job stops being polled.
type PollFetchError struct {
	JobID string
	Err   error
}

func (e *PollFetchError) Error() string {
	return fmt.Sprintf("status fetch failed for job %s: %v", e.JobID, e.Err)
}

func (e *PollFetchError) Unwrap() error {
	return e.Err
}

// HistoryFetchError is logged when a history refresh fails; the previous
// list stays visible.
type HistoryFetchError struct {
	Err error
}

func (e *HistoryFetchError) Error() string {
	return fmt.Sprintf("history fetch failed: %v", e.Err)
}

func (e *HistoryFetchError) Unwrap() error {
	return e.Err
}
