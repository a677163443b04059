package vedarag

import (
	"context"
	"net/http"
	"time"
)

// Health reports server health. A degraded server still returns its
// report, together with an error wrapping ErrUnavailable.
func (c *Client) Health(ctx context.Context) (hs HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", nil, &hs, nil)
	return hs, err
}
