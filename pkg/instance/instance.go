package instance

import "os"

// GetID identifies this worker replica in logs and lock ownership records.
// Orchestrators set SLICEOPS_WORKER_ID per replica; the hostname covers
// containerized deployments that do not.
func GetID() string {
	if id := os.Getenv("SLICEOPS_WORKER_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
