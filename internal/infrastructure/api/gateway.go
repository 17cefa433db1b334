package api

import (
	"context"
	"fmt"
	"strconv"

	apphttp "neighbournode.dev/cli/internal/application/http"
	"neighbournode.dev/cli/internal/core/domain"
)

// Gateway is the typed surface over the Neighbour Node backend. It owns no
// HTTP policy of its own: paths and payloads are built here, everything else
// is the backend client's job, and errors pass through untouched so callers
// can still pick out the StatusError.
type Gateway struct {
	client *apphttp.BackendClient
}

// NewGateway creates a gateway over the given backend client
func NewGateway(client *apphttp.BackendClient) *Gateway {
	return &Gateway{client: client}
}

// Health checks that the backend is up
func (g *Gateway) Health(ctx context.Context) error {
	var reply domain.StatusReply
	if err := g.client.GetJSON(ctx, "/health", nil, &reply); err != nil {
		return err
	}

	if !reply.OK() {
		return fmt.Errorf("backend reported status %q", reply.Status)
	}
	return nil
}

// formatFloat renders coordinates and radii without trailing zeros, the
// shortest form that round-trips.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
