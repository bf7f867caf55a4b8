package enums

import "fmt"

// JobStatus tracks the progress of an on-site service job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusSuccess   JobStatus = "success"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
	JobStatusReady     JobStatus = "ready"
)

var validJobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusSuccess,
	JobStatusFailed,
	JobStatusCancelled,
	JobStatusReady,
}

// String implements fmt.Stringer.
func (j JobStatus) String() string {
	return string(j)
}

// IsValid reports whether the value is a known JobStatus.
func (j JobStatus) IsValid() bool {
	for _, candidate := range validJobStatuses {
		if candidate == j {
			return true
		}
	}
	return false
}

// ParseJobStatus converts raw input into a JobStatus.
func ParseJobStatus(value string) (JobStatus, error) {
	for _, candidate := range validJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid job status %q", value)
}
