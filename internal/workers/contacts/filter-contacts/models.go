package filtercontacts

import (
	"context"

	"crm-sync/internal/common/ghl"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct {
	Tag         string `json:"tag,omitempty"`
	SmartListID string `json:"smartListId,omitempty"`
}

type Output struct {
	Success  bool             `json:"success,omitempty"`
	Error    string           `json:"error,omitempty"`
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
}

type FilteredSearcher interface {
	SearchContactsAdvanced(ctx context.Context, q ghl.AdvancedQuery) ([]models.Contact, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	GHL    FilteredSearcher
}
