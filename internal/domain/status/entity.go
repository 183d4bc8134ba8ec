// Package status contains the admission pipeline status registry.
// Statuses are named lifecycle stages (Prospect, Accepté, ...) ordered by
// sort order; together they define the canonical pipeline sequence.
package status

import (
	"strings"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
)

// StatusID represents the unique identifier of a pipeline status.
type StatusID int64

// IsValid checks that the ID is positive.
func (id StatusID) IsValid() bool {
	return id > 0
}

// Status is a named stage in the student admission pipeline.
// A status is immutable once referenced by history rows.
type Status struct {
	ID        StatusID
	Name      string
	Active    bool
	SortOrder int
}

// Validate checks entity invariants.
func (s *Status) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return shared.NewDomainError("status", "Validate", shared.ErrEmptyValue, "name is required")
	}
	return nil
}

// Default pipeline stages seeded on first boot. The registry seeds only
// when the statuses table is empty, so renames survive restarts.
func DefaultStatuses() []Status {
	return []Status{
		{Name: "Prospect", Active: true, SortOrder: 10},
		{Name: "Dossier en préparation", Active: true, SortOrder: 20},
		{Name: "Envoyé", Active: true, SortOrder: 30},
		{Name: "Accepté", Active: true, SortOrder: 40},
		{Name: "Refusé", Active: true, SortOrder: 50},
		{Name: "Visa obtenu", Active: true, SortOrder: 60},
		{Name: "Voyage effectué", Active: true, SortOrder: 70},
	}
}
