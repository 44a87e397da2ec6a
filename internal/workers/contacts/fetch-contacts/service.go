package fetchcontacts

import (
	"context"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	ghl    ContactLister
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		ghl:    deps.GHL,
	}
}

// Execute reads every contact of the location. A mid-stream failure returns the partial
// output together with the error.
func (s *Service) Execute(ctx context.Context, _ *Input) (*Output, error) {
	s.logger.Info("Starting GHL fetch all contacts", nil)

	contacts, err := s.ghl.FetchAllContacts(ctx)
	if contacts == nil {
		contacts = []models.Contact{}
	}
	if err != nil {
		s.logger.Error("Fetch failed", map[string]interface{}{
			"error":   errors.MessageOf(err),
			"partial": len(contacts),
		})
		return &Output{
			Error:    errors.MessageOf(err),
			Contacts: contacts,
			Total:    len(contacts),
		}, err
	}

	s.logger.Info("Fetch complete", map[string]interface{}{"total": len(contacts)})
	return &Output{
		Success:  true,
		Contacts: contacts,
		Total:    len(contacts),
	}, nil
}
