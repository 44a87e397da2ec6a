package ghl

import (
	"context"
	"net/http"
	"strings"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/models"
)

// AdvancedQuery filters the POST /contacts/search endpoint. Both fields are optional.
type AdvancedQuery struct {
	Tag         string
	SmartListID string
}

type searchFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchRequest struct {
	LocationID   string              `json:"locationId"`
	PageLimit    int                 `json:"pageLimit"`
	SmartListID  string              `json:"smartListId,omitempty"`
	FilterGroups []searchFilterGroup `json:"filterGroups,omitempty"`
	SearchAfter  []interface{}       `json:"searchAfter,omitempty"`
}

type searchResponse struct {
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
	Meta     struct {
		SearchAfter []interface{} `json:"searchAfter"`
		NextPageURL string        `json:"nextPageUrl"`
	} `json:"meta"`
}

// SearchContactsAdvanced pages through the filtered search, keeping only contacts that
// have an email. It stops at the safety cap and returns the partial list on error.
func (c *Client) SearchContactsAdvanced(ctx context.Context, q AdvancedQuery) ([]models.Contact, error) {
	all := []models.Contact{}

	req := searchRequest{
		LocationID:  c.cfg.LocationID,
		PageLimit:   c.cfg.PageLimit,
		SmartListID: q.SmartListID,
	}
	if q.Tag != "" {
		req.FilterGroups = []searchFilterGroup{{
			Filters: []searchFilter{{Field: "tags", Operator: "contains", Value: q.Tag}},
		}}
	}

	for {
		c.logger.Info("Searching contacts", map[string]interface{}{
			"tag":         q.Tag,
			"smartListId": q.SmartListID,
			"collected":   len(all),
		})

		var resp searchResponse
		if _, err := c.http.Do(ctx, http.MethodPost, "/contacts/search", nil, req, &resp); err != nil {
			c.logger.Error("Advanced search failed", map[string]interface{}{"error": errors.MessageOf(err)})
			return all, err
		}
		if len(resp.Contacts) == 0 {
			break
		}

		for _, contact := range resp.Contacts {
			if strings.TrimSpace(contact.Email) != "" {
				all = append(all, contact)
			}
		}

		if len(all) >= c.cfg.MaxContacts {
			c.logger.Warn("Contact search capped", map[string]interface{}{"cap": c.cfg.MaxContacts})
			all = all[:c.cfg.MaxContacts]
			break
		}
		// The cursor is authoritative; a next-page URL without one cannot advance.
		if len(resp.Meta.SearchAfter) == 0 || len(resp.Contacts) < c.cfg.PageLimit {
			break
		}
		req.SearchAfter = resp.Meta.SearchAfter
	}

	c.logger.Info("Advanced search complete", map[string]interface{}{"total": len(all)})
	return all, nil
}
