package query

import (
	"context"
	"fmt"

	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST STATUSES QUERY
// The registry feeds dropdowns and the pipeline board, ordered by sort
// order. Usually served through the cached registry decorator.
// ══════════════════════════════════════════════════════════════════════════════

// ListStatusesHandler handles registry reads.
type ListStatusesHandler struct {
	statusRepo status.Repository
}

// NewListStatusesHandler creates a new handler.
func NewListStatusesHandler(statusRepo status.Repository) *ListStatusesHandler {
	return &ListStatusesHandler{statusRepo: statusRepo}
}

// Handle returns all active statuses in pipeline order.
func (h *ListStatusesHandler) Handle(ctx context.Context) ([]*status.Status, error) {
	statuses, err := h.statusRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list_statuses: %w", err)
	}
	return statuses, nil
}
