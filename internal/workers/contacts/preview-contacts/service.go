package previewcontacts

import (
	"context"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/ghl"
	"crm-sync/internal/common/logger"
)

type Service struct {
	config *Config
	logger logger.Logger
	ghl    ContactSearcher
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		ghl:    deps.GHL,
	}
}

// Execute reads a single page for review. Nothing is de-duplicated.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Preview requested", map[string]interface{}{
		"query":        input.Query,
		"startAfterId": input.StartAfterID,
	})

	page, err := s.ghl.SearchContacts(ctx, ghl.ContactQuery{
		Query:        input.Query,
		StartAfterID: input.StartAfterID,
		StartAfter:   input.StartAfter,
	})
	if err != nil {
		s.logger.Error("Preview failed", map[string]interface{}{"error": errors.MessageOf(err)})
		return nil, err
	}

	output := &Output{
		Success:  true,
		Contacts: page.Contacts,
		Total:    page.Total,
	}
	if len(page.Contacts) >= s.ghl.PageLimit() {
		output.NextStartAfterID = page.NextStartAfterID
		output.NextStartAfter = page.NextStartAfter
	}

	s.logger.Info("Preview complete", map[string]interface{}{
		"count": len(page.Contacts),
		"total": page.Total,
	})
	return output, nil
}
