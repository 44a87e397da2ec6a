package pushcontacts

import (
	"context"

	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct {
	Contacts []models.Contact `json:"contacts"`
}

type Output struct {
	Success bool                `json:"success"`
	Results *models.PushResults `json:"results"`
}

// LeadWriter is the part of the Close client the push needs.
type LeadWriter interface {
	SearchLeadByEmail(ctx context.Context, email string) ([]models.Lead, error)
	CreateLeadFromContact(ctx context.Context, contact models.Contact) (*models.Lead, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Close  LeadWriter
}
