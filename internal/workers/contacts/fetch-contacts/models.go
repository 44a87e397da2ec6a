package fetchcontacts

import (
	"context"

	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct{}

// Output carries the contacts read so far. On failure Error is set and Contacts holds the
// partial list.
type Output struct {
	Success  bool             `json:"success,omitempty"`
	Error    string           `json:"error,omitempty"`
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
}

type ContactLister interface {
	FetchAllContacts(ctx context.Context) ([]models.Contact, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	GHL    ContactLister
}
