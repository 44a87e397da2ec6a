package listtags

import (
	"context"

	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct{}

type Output struct {
	Success bool         `json:"success"`
	Tags    []models.Tag `json:"tags"`
	Total   int          `json:"total"`
}

type TagLister interface {
	GetTags(ctx context.Context) ([]models.Tag, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	GHL    TagLister
}
