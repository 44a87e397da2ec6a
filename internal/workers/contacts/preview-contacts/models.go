package previewcontacts

import (
	"context"

	"crm-sync/internal/common/ghl"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct {
	Query        string `json:"query,omitempty"`
	StartAfterID string `json:"startAfterId,omitempty"`
	StartAfter   string `json:"startAfter,omitempty"`
}

type Output struct {
	Success  bool             `json:"success"`
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
	// Cursor of the following page, empty on the last page.
	NextStartAfterID string `json:"nextStartAfterId,omitempty"`
	NextStartAfter   string `json:"nextStartAfter,omitempty"`
}

type ContactSearcher interface {
	SearchContacts(ctx context.Context, q ghl.ContactQuery) (*ghl.ContactPage, error)
	PageLimit() int
}

type ServiceDependencies struct {
	Logger logger.Logger
	GHL    ContactSearcher
}
