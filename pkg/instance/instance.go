package instance

import "os"

const defaultID = "worker-0"

// GetID identifies this worker instance in logs. Deployments set
// WORKER_ID per replica; local runs fall back to a fixed id.
func GetID() string {
	if id := os.Getenv("WORKER_ID"); id != "" {
		return id
	}
	return defaultID
}
