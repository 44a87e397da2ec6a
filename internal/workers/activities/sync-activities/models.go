package syncactivities

import (
	"context"

	"crm-sync/internal/common/ghl"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Input struct {
	Activities []models.Activity `json:"activities"`
}

type Output struct {
	Success bool                        `json:"success"`
	Results *models.ActivitySyncResults `json:"results"`
}

// NoteWriter is the part of the GHL client the sync needs.
type NoteWriter interface {
	LookupContactByEmail(ctx context.Context, email string) (*models.Contact, error)
	CreateNote(ctx context.Context, contactID, body string) (*ghl.Note, error)
}

type ServiceDependencies struct {
	Logger logger.Logger
	GHL    NoteWriter
}
