package syncactivities

import (
	"context"
	"strings"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/metrics"
	"crm-sync/internal/common/notes"
	"crm-sync/internal/common/ratelimit"
	"crm-sync/internal/common/validation"
	"crm-sync/internal/models"
)

const (
	reasonNoEmail   = "No email associated with activity"
	reasonNoContact = "No matching contact in GHL"
)

type lookupResult struct {
	contact *models.Contact
	err     error
}

type Service struct {
	config *Config
	logger logger.Logger
	ghl    NoteWriter
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		ghl:    deps.GHL,
	}
}

// Execute posts every activity as a note on the GHL contact with the same email. Items
// are processed in order and each one ends as synced, noMatch or failed.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Starting activity sync to GHL", map[string]interface{}{
		"count": len(input.Activities),
	})

	results := models.NewActivitySyncResults()
	lookups := make(map[string]lookupResult)
	throttle := ratelimit.New(s.config.LookupInterval)

	for _, activity := range input.Activities {
		detail := models.ItemDetail{
			Type:  activity.TypeLabel(),
			Email: strings.TrimSpace(activity.Email),
		}

		if detail.Email == "" {
			detail.Status = models.StatusNoMatch
			detail.Reason = reasonNoEmail
			s.record(results, detail)
			continue
		}

		key := validation.NormalizeEmail(detail.Email)
		lookup, ok := lookups[key]
		if !ok {
			lookup = s.lookup(ctx, throttle, detail.Email)
			lookups[key] = lookup
		}

		switch {
		case lookup.err != nil:
			detail.Status = models.StatusNoMatch
			detail.Reason = errors.ItemReason(lookup.err)
		case lookup.contact == nil || lookup.contact.ID == "":
			detail.Status = models.StatusNoMatch
			detail.Reason = reasonNoContact
		default:
			s.postNote(ctx, throttle, lookup.contact.ID, activity, &detail)
		}
		s.record(results, detail)
	}

	s.logger.Info("Activity sync complete", map[string]interface{}{
		"synced":  results.Synced,
		"noMatch": results.NoMatch,
		"failed":  results.Failed,
	})

	return &Output{Success: true, Results: results}, nil
}

func (s *Service) lookup(ctx context.Context, throttle *ratelimit.Throttle, email string) lookupResult {
	if err := throttle.Wait(ctx); err != nil {
		return lookupResult{err: err}
	}
	contact, err := s.ghl.LookupContactByEmail(ctx, email)
	throttle.DoneAfter(s.config.LookupInterval)
	return lookupResult{contact: contact, err: err}
}

func (s *Service) postNote(ctx context.Context, throttle *ratelimit.Throttle, contactID string, activity models.Activity, detail *models.ItemDetail) {
	if err := throttle.Wait(ctx); err != nil {
		detail.Status = models.StatusFailed
		detail.Reason = errors.ItemReason(err)
		return
	}

	_, err := s.ghl.CreateNote(ctx, contactID, notes.Format(activity))
	throttle.DoneAfter(s.config.NoteInterval)
	if err != nil {
		detail.Status = models.StatusFailed
		detail.Reason = errors.ItemReason(err)
		return
	}
	detail.Status = models.StatusSynced
}

func (s *Service) record(results *models.ActivitySyncResults, detail models.ItemDetail) {
	results.Append(detail)
	metrics.SyncItemsTotal.WithLabelValues(ActionName, string(detail.Status)).Inc()
}
