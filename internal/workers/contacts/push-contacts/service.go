package pushcontacts

import (
	"context"
	"strings"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/metrics"
	"crm-sync/internal/common/ratelimit"
	"crm-sync/internal/models"
)

const reasonAlreadyExists = "Already exists in Close"

type Service struct {
	config *Config
	logger logger.Logger
	close  LeadWriter
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		close:  deps.Close,
	}
}

// Execute creates a Close lead for every contact, one at a time. Contacts whose email
// already has a lead are skipped; contacts without an email are always created. A failed
// item is recorded and the batch continues.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Starting push to Close", map[string]interface{}{
		"contactCount": len(input.Contacts),
	})

	results := models.NewPushResults()
	throttle := ratelimit.New(s.config.Interval)

	for i, contact := range input.Contacts {
		detail := s.pushOne(ctx, throttle, contact)
		results.Append(detail)
		metrics.SyncItemsTotal.WithLabelValues(ActionName, string(detail.Status)).Inc()

		s.logger.Debug("Contact processed", map[string]interface{}{
			"index":  i,
			"email":  detail.Email,
			"status": string(detail.Status),
		})
	}

	s.logger.Info("Push complete", map[string]interface{}{
		"created": results.Created,
		"skipped": results.Skipped,
		"failed":  results.Failed,
	})

	return &Output{Success: true, Results: results}, nil
}

func (s *Service) pushOne(ctx context.Context, throttle *ratelimit.Throttle, contact models.Contact) models.ItemDetail {
	detail := models.ItemDetail{
		Name:  contactLabel(contact),
		Email: contact.Email,
	}

	if email := strings.TrimSpace(contact.Email); email != "" {
		if err := throttle.Wait(ctx); err != nil {
			return failed(detail, err)
		}
		leads, err := s.close.SearchLeadByEmail(ctx, email)
		throttle.Done()
		switch {
		case err != nil:
			// The duplicate check is best-effort; creation is still attempted.
			s.logger.WithError(err).Warn("Duplicate check failed", map[string]interface{}{
				"email": email,
			})
		case len(leads) > 0:
			detail.Status = models.StatusSkipped
			detail.Reason = reasonAlreadyExists
			return detail
		}
	}

	if err := throttle.Wait(ctx); err != nil {
		return failed(detail, err)
	}
	lead, err := s.close.CreateLeadFromContact(ctx, contact)
	throttle.Done()
	if err != nil {
		return failed(detail, err)
	}

	detail.Status = models.StatusCreated
	if lead != nil {
		detail.LeadID = lead.ID
	}
	return detail
}

func failed(detail models.ItemDetail, err error) models.ItemDetail {
	detail.Status = models.StatusFailed
	detail.Reason = errors.ItemReason(err)
	return detail
}

func contactLabel(c models.Contact) string {
	if name := c.DisplayName(); name != "" {
		return name
	}
	return "Unknown"
}
