package fetchactivities

import (
	"context"

	"crm-sync/internal/common/closecrm"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct {
	ActivityType string `json:"activityType,omitempty"`
	DateAfter    string `json:"dateAfter,omitempty"`
}

// Output lists the activities with their resolved email in "_email".
type Output struct {
	Success    bool              `json:"success"`
	Activities []models.Activity `json:"activities"`
	Total      int               `json:"total"`
}

type ActivitySource interface {
	FetchActivities(ctx context.Context, q closecrm.ActivityQuery) (*closecrm.ActivityPage, error)
	GetContact(ctx context.Context, contactID string) (*models.CloseContact, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	Close  ActivitySource
}
