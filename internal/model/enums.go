package model

// Job status
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
	JobStatusError      JobStatus = "error"

	// Intermediate stages reported by the separation backend. The tracker
	// treats these, like any unknown value, as non-terminal.
	JobStatusDownloading JobStatus = "downloading"
	JobStatusSeparating  JobStatus = "separating"
	JobStatusOrganizing  JobStatus = "organizing"
)

// IsTerminal reports whether no further polling should happen for the status.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusComplete || s == JobStatusError
}

// Separation models offered by the backend when it cannot be asked.
const DefaultModel = "htdemucs"

var KnownModels = []string{"htdemucs", "htdemucs_ft", "htdemucs_6s", "mdx_extra"}

// Notification levels
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelWarning = "warning"
	LevelInfo    = "info"
)
