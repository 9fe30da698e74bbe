package domain

import "crypto/rand"

// JobStatus enumerates image generation job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether no further transitions are allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobState is the full record kept for a job. Exactly one of
// AttachmentID/Error is set, and only in a terminal status.
type JobState struct {
	Status       JobStatus `json:"status"`
	AttachmentID int64     `json:"attachment_id,omitempty"`
	Error        string    `json:"error,omitempty"`
}

const jobIDLength = 16

const jobIDAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewJobID returns a fresh URL-safe alphanumeric job token.
func NewJobID() string {
	buf := make([]byte, jobIDLength)
	if _, err := rand.Read(buf); err != nil {
		panic("domain: read random bytes: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = jobIDAlphabet[int(b)%len(jobIDAlphabet)]
	}
	return string(buf)
}
