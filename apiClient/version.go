package apiclient

import "context"

type VersionInfo struct {
	GitHash     string `json:"git_hash"`
	GitHashFull string `json:"git_hash_full"`
}

type HealthStatus struct {
	Status string `json:"status"`
}

func (c *Client) GetVersion(ctx context.Context) (*VersionInfo, error) {
	return Dispatch[*VersionInfo](ctx, c, "/api/v1/version")
}

// Health hits the unversioned liveness endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	return Dispatch[*HealthStatus](ctx, c, "/health")
}
