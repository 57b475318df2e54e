package model

// Job is one observation of a separation job as reported by the backend.
type Job struct {
	ID        string            `json:"id"`
	URL       string            `json:"url,omitempty"`
	Title     string            `json:"title,omitempty"`
	Model     string            `json:"model,omitempty"`
	Status    JobStatus         `json:"status"`
	Progress  float64           `json:"progress"`
	Message   string            `json:"message"`
	Stems     map[string]string `json:"stems,omitempty"`
	Timestamp string            `json:"timestamp,omitempty"`
	Error     *string           `json:"error,omitempty"`
}

// StemNames returns the keys of Stems.
func (j *Job) StemNames() []string {
	names := make([]string, 0, len(j.Stems))
	for name := range j.Stems {
		names = append(names, name)
	}
	return names
}
