package leadstore

// Response is what a lead store endpoint answers. Some deployments reply
// with "ok" instead of "success"; either one set to true counts.
type Response struct {
	Success         *bool  `json:"success,omitempty"`
	OK              *bool  `json:"ok,omitempty"`
	Error           string `json:"error,omitempty"`
	Message         string `json:"message,omitempty"`
	Sheet           string `json:"sheet,omitempty"`
	Urgency         string `json:"urgency,omitempty"`
	SubmissionCount int    `json:"submissionCount,omitempty"`
}

func (r Response) accepted() bool {
	return (r.Success != nil && *r.Success) || (r.OK != nil && *r.OK)
}

func (r Response) reason() string {
	if r.Error != "" {
		return r.Error
	}
	if r.Message != "" {
		return r.Message
	}
	return "store did not confirm the write"
}
