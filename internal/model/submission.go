package model

// ProcessRequest is the body of POST /api/process
type ProcessRequest struct {
	URL   string `json:"url" validate:"required,stemsource"`
	Model string `json:"model" validate:"omitempty,max=64"`
}

// ProcessResponse is the backend reply to a single submission
type ProcessResponse struct {
	Success bool   `json:"success"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BatchRequest is the body of POST /api/batch. Entries are not validated
// one by one here: invalid URLs are skipped and counted, not rejected.
type BatchRequest struct {
	URLs  []string `json:"urls" validate:"required,min=1,max=100"`
	Model string   `json:"model" validate:"omitempty,max=64"`
}

// BatchResponse is the backend reply to a batch submission
type BatchResponse struct {
	Success bool     `json:"success"`
	JobIDs  []string `json:"job_ids,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// SubmitResponse is what the local API returns after a submission
type SubmitResponse struct {
	Success    bool     `json:"success"`
	JobIDs     []string `json:"jobIds"`
	Rejected   int      `json:"rejected"`
	ClearInput bool     `json:"clearInput"`
}
