package fetchactivities

import (
	"context"
	"regexp"
	"strings"

	"crm-sync/internal/common/closecrm"
	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/ratelimit"
	"crm-sync/internal/common/validation"
	"crm-sync/internal/models"
)

var angleAddress = regexp.MustCompile(`<([^>]+)>`)

type Service struct {
	config *Config
	logger logger.Logger
	close  ActivitySource
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config: config,
		logger: deps.Logger,
		close:  deps.Close,
	}
}

// Execute pages through the activity listing and resolves a contact email for each
// activity. A failed page aborts the call; a failed contact lookup only leaves that
// activity without an email.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Fetching Close activities", map[string]interface{}{
		"type":      typeLabel(input.ActivityType),
		"dateAfter": input.DateAfter,
	})

	activities, err := s.fetchAll(ctx, input)
	if err != nil {
		return nil, err
	}

	s.resolveEmails(ctx, activities)

	s.logger.Info("Activity fetch complete", map[string]interface{}{"count": len(activities)})
	return &Output{
		Success:    true,
		Activities: activities,
		Total:      len(activities),
	}, nil
}

func (s *Service) fetchAll(ctx context.Context, input *Input) ([]models.Activity, error) {
	all := []models.Activity{}
	query := closecrm.ActivityQuery{
		Type:      strings.TrimSpace(input.ActivityType),
		Limit:     s.config.PageSize,
		DateAfter: strings.TrimSpace(input.DateAfter),
	}

	for {
		page, err := s.close.FetchActivities(ctx, query)
		if err != nil {
			s.logger.Error("Activity fetch failed", map[string]interface{}{
				"skip":  query.Skip,
				"error": errors.MessageOf(err),
			})
			return nil, err
		}

		all = append(all, page.Activities...)

		if len(all) >= s.config.MaxActivities {
			s.logger.Warn("Activity fetch capped", map[string]interface{}{"cap": s.config.MaxActivities})
			return all[:s.config.MaxActivities], nil
		}
		if !page.HasMore || len(page.Activities) == 0 {
			return all, nil
		}
		query.Skip += query.Limit
	}
}

// resolveEmails sets Email on every activity. Lookups are cached per contact id for the
// duration of the call.
func (s *Service) resolveEmails(ctx context.Context, activities []models.Activity) {
	cache := make(map[string]string)
	throttle := ratelimit.New(s.config.LookupInterval)

	for i := range activities {
		a := &activities[i]
		a.Email = ""

		if a.ContactID != "" {
			if email, ok := cache[a.ContactID]; ok {
				a.Email = email
				continue
			}
		}

		if a.EmailMsg != nil {
			if email := emailFromMessage(a.EmailMsg); email != "" {
				if a.ContactID != "" {
					cache[a.ContactID] = email
				}
				a.Email = email
				continue
			}
		}

		if a.ContactID == "" {
			continue
		}

		a.Email = s.lookupContactEmail(ctx, throttle, a.ContactID)
		cache[a.ContactID] = a.Email
	}
}

func (s *Service) lookupContactEmail(ctx context.Context, throttle *ratelimit.Throttle, contactID string) string {
	if err := throttle.Wait(ctx); err != nil {
		s.logger.Warn("Contact lookup skipped", map[string]interface{}{
			"contactId": contactID,
			"error":     err.Error(),
		})
		return ""
	}

	contact, err := s.close.GetContact(ctx, contactID)
	throttle.Done()
	if err != nil {
		s.logger.WithError(err).Warn("Contact lookup failed", map[string]interface{}{
			"contactId": contactID,
		})
		return ""
	}
	if contact == nil {
		return ""
	}
	return contact.PrimaryEmail()
}

// emailFromMessage takes the sender address, falling back to the first recipient.
func emailFromMessage(e *models.EmailActivity) string {
	if email := extractEmailAddress(e.Sender); email != "" {
		return email
	}
	if len(e.To) > 0 {
		return extractEmailAddress(e.To[0])
	}
	return ""
}

// extractEmailAddress returns the address inside angle brackets, or the whole value when
// it is itself a valid address.
func extractEmailAddress(raw string) string {
	if m := angleAddress.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1])
	}
	raw = strings.TrimSpace(raw)
	if validation.ValidateEmail(raw) {
		return raw
	}
	return ""
}

func typeLabel(t string) string {
	if t == "" {
		return "all"
	}
	return t
}
