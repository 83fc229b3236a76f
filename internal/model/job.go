package model

import "time"

// Job is one report request travelling through the pipeline.
// Steps fill in the fields below in order; a failed step records its
// error and leaves later fields empty.
type Job struct {
	// Source names where the request came from (a file path or "form").
	Source string `json:"source"`

	// Request is the decoded request. Intake may rewrite it in place.
	Request *Request `json:"-"`

	// Report is set by the compose step.
	Report *ComposedReport `json:"-"`

	// OutputPath is where the artifact was written.
	OutputPath string `json:"output_path,omitempty"`

	// ManifestPath is where the manifest sidecar was written.
	ManifestPath string `json:"manifest_path,omitempty"`

	// StartedAt is when the job was created.
	StartedAt time.Time `json:"started_at"`

	// Error is the error of the failing step, if any.
	Error error `json:"-"`

	// ErrorMessage is Error as text, for summaries.
	ErrorMessage string `json:"error,omitempty"`

	// PerformedSteps lists the steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`
}

// NewJob creates a Job for the given request.
func NewJob(source string, req *Request) *Job {
	return &Job{
		Source:         source,
		Request:        req,
		StartedAt:      time.Now(),
		PerformedSteps: make([]string, 0),
	}
}

// Failed reports whether a step recorded an error.
func (j *Job) Failed() bool {
	return j.Error != nil
}
