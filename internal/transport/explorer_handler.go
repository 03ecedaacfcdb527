// Package transport exposes the explorer over REST and the gRPC health service.
package transport

import (
	"context"

	blockinsight7000v1 "github.com/goodnatureofminers/blockinsight7000-proto/pkg/blockinsight7000/v1"
)

const syncingDescription = "best block not observed yet"

// ExplorerHandler implements ExplorerServiceServer.
type ExplorerHandler struct {
	blockinsight7000v1.UnimplementedExplorerServiceServer
	tip TipStatus
}

// NewExplorerHandler returns an ExplorerHandler instance.
func NewExplorerHandler(tip TipStatus) blockinsight7000v1.ExplorerServiceServer {
	return &ExplorerHandler{tip: tip}
}

// Health reports server health. The process serves requests before the first
// best block is observed, so the status stays healthy and the description
// says that the tip is still unknown.
func (h *ExplorerHandler) Health(_ context.Context, _ *blockinsight7000v1.HealthRequest) (*blockinsight7000v1.HealthResponse, error) {
	description := ""
	if !h.tip.Known() {
		description = syncingDescription
	}
	return &blockinsight7000v1.HealthResponse{
		Status:      blockinsight7000v1.HealthStatus_HEALTH_STATUS_HEALTHY,
		Description: description,
	}, nil
}
