package filtercontacts

import (
	"context"
	"strings"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/ghl"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	ghl    FilteredSearcher
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		ghl:    deps.GHL,
	}
}

// Execute runs the advanced search. Only contacts with an email come back, since nothing
// else can be matched downstream.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	query := ghl.AdvancedQuery{
		Tag:         strings.TrimSpace(input.Tag),
		SmartListID: strings.TrimSpace(input.SmartListID),
	}
	s.logger.Info("Filtered fetch requested", map[string]interface{}{
		"tag":         query.Tag,
		"smartListId": query.SmartListID,
	})

	contacts, err := s.ghl.SearchContactsAdvanced(ctx, query)
	if contacts == nil {
		contacts = []models.Contact{}
	}
	if err != nil {
		return &Output{
			Error:    errors.MessageOf(err),
			Contacts: contacts,
			Total:    len(contacts),
		}, err
	}

	return &Output{
		Success:  true,
		Contacts: contacts,
		Total:    len(contacts),
	}, nil
}
