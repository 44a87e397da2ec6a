// Package ghl is the GoHighLevel v2 API client.
package ghl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"crm-sync/internal/common/config"
	"crm-sync/internal/common/errors"
	httpclient "crm-sync/internal/common/http"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/common/validation"
	"crm-sync/internal/models"
)

const (
	Vendor = "GHL"

	DefaultBaseURL     = "https://services.leadconnectorhq.com"
	DefaultAPIVersion  = "2021-07-28"
	DefaultPageLimit   = 100
	DefaultMaxContacts = 5000
	DefaultLookupLimit = 10
)

type Config struct {
	APIKey      string
	LocationID  string
	BaseURL     string
	APIVersion  string
	PageLimit   int
	MaxContacts int // safety cap for multi-page reads
	LookupLimit int
	Timeout     time.Duration
}

// ConfigFromApp maps the integrations.ghl section onto a client config.
func ConfigFromApp(c config.GHLConfig) Config {
	return Config{
		APIKey:      c.APIKey,
		LocationID:  c.LocationID,
		BaseURL:     c.BaseURL,
		APIVersion:  c.APIVersion,
		PageLimit:   c.PageLimit,
		MaxContacts: c.MaxContacts,
		LookupLimit: c.LookupLimit,
		Timeout:     config.GetDuration(c.Timeout),
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.PageLimit <= 0 {
		c.PageLimit = DefaultPageLimit
	}
	if c.MaxContacts <= 0 {
		c.MaxContacts = DefaultMaxContacts
	}
	if c.LookupLimit <= 0 {
		c.LookupLimit = DefaultLookupLimit
	}
}

type Client struct {
	cfg    Config
	http   *httpclient.Client
	logger logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	cfg.applyDefaults()
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.With(map[string]interface{}{"source": Vendor})

	apiKey, version := cfg.APIKey, cfg.APIVersion
	return &Client{
		cfg: cfg,
		http: httpclient.NewClient(httpclient.Options{
			BaseURL: cfg.BaseURL,
			Vendor:  Vendor,
			Timeout: cfg.Timeout,
			Authorize: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer "+apiKey)
				req.Header.Set("Version", version)
			},
			ErrorFields: []string{"message"},
			Logger:      log,
		}),
		logger: log,
	}
}

func (c *Client) PageLimit() int {
	return c.cfg.PageLimit
}

// ContactQuery selects one page of the contact listing. The cursor is the id and
// dateAdded of the last contact of the previous page.
type ContactQuery struct {
	Query        string
	StartAfterID string
	StartAfter   string
}

type ContactPage struct {
	Contacts         []models.Contact
	Total            int
	NextStartAfterID string
	NextStartAfter   string
}

type listContactsResponse struct {
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
}

// SearchContacts fetches a single page of contacts.
func (c *Client) SearchContacts(ctx context.Context, q ContactQuery) (*ContactPage, error) {
	params := url.Values{}
	params.Set("locationId", c.cfg.LocationID)
	params.Set("limit", strconv.Itoa(c.cfg.PageLimit))
	if q.Query != "" {
		params.Set("query", q.Query)
	}
	if q.StartAfterID != "" {
		params.Set("startAfterId", q.StartAfterID)
	}
	if q.StartAfter != "" {
		params.Set("startAfter", q.StartAfter)
	}

	var resp listContactsResponse
	if _, err := c.http.Do(ctx, http.MethodGet, "/contacts/", params, nil, &resp); err != nil {
		c.logger.Error("Failed to fetch contacts", map[string]interface{}{
			"error": errors.MessageOf(err),
		})
		return nil, err
	}

	page := &ContactPage{
		Contacts: resp.Contacts,
		Total:    resp.Total,
	}
	if page.Contacts == nil {
		page.Contacts = []models.Contact{}
	}
	if n := len(page.Contacts); n > 0 {
		last := page.Contacts[n-1]
		page.NextStartAfterID = last.ID
		page.NextStartAfter = cursorTimestamp(last.DateAdded)
	}

	c.logger.Info("Fetched contacts", map[string]interface{}{
		"count": len(page.Contacts),
		"total": page.Total,
	})
	return page, nil
}

// FetchAllContacts walks the cursor until a short or empty page, the reported total, or
// the safety cap. On error it returns what it collected so far.
func (c *Client) FetchAllContacts(ctx context.Context) ([]models.Contact, error) {
	all := []models.Contact{}
	var q ContactQuery

	for {
		page, err := c.SearchContacts(ctx, q)
		if err != nil {
			return all, err
		}
		if len(page.Contacts) == 0 {
			break
		}

		all = append(all, page.Contacts...)

		if len(page.Contacts) < c.cfg.PageLimit || len(all) >= page.Total {
			break
		}
		if len(all) >= c.cfg.MaxContacts {
			c.logger.Warn("Contact fetch capped", map[string]interface{}{"cap": c.cfg.MaxContacts})
			break
		}
		if page.NextStartAfterID == "" {
			break
		}
		q.StartAfterID = page.NextStartAfterID
		q.StartAfter = page.NextStartAfter
	}

	if len(all) > c.cfg.MaxContacts {
		all = all[:c.cfg.MaxContacts]
	}
	return all, nil
}

// LookupContactByEmail returns the contact whose email equals email ignoring case,
// or nil when the search yields no exact match.
func (c *Client) LookupContactByEmail(ctx context.Context, email string) (*models.Contact, error) {
	params := url.Values{}
	params.Set("locationId", c.cfg.LocationID)
	params.Set("query", email)
	params.Set("limit", strconv.Itoa(c.cfg.LookupLimit))

	var resp listContactsResponse
	if _, err := c.http.Do(ctx, http.MethodGet, "/contacts/", params, nil, &resp); err != nil {
		c.logger.Error("Email lookup failed", map[string]interface{}{
			"email": email,
			"error": errors.MessageOf(err),
		})
		return nil, err
	}

	want := validation.NormalizeEmail(email)
	for i := range resp.Contacts {
		if validation.NormalizeEmail(resp.Contacts[i].Email) == want {
			contact := resp.Contacts[i]
			c.logger.Debug("Contact found", map[string]interface{}{"email": email, "contactId": contact.ID})
			return &contact, nil
		}
	}

	c.logger.Debug("No matching contact found", map[string]interface{}{"email": email})
	return nil, nil
}

type Note struct {
	ID        string `json:"id"`
	Body      string `json:"body"`
	ContactID string `json:"contactId,omitempty"`
	DateAdded string `json:"dateAdded,omitempty"`
}

// CreateNote attaches a note to a contact.
func (c *Client) CreateNote(ctx context.Context, contactID, body string) (*Note, error) {
	var resp struct {
		Note Note `json:"note"`
	}
	path := "/contacts/" + url.PathEscape(contactID) + "/notes"
	if _, err := c.http.Do(ctx, http.MethodPost, path, nil, map[string]string{"body": body}, &resp); err != nil {
		c.logger.Error("Failed to create note", map[string]interface{}{
			"contactId": contactID,
			"error":     errors.MessageOf(err),
		})
		return nil, err
	}

	c.logger.Info("Note created", map[string]interface{}{"contactId": contactID, "noteId": resp.Note.ID})
	return &resp.Note, nil
}

// GetTags lists the tags defined for the location.
func (c *Client) GetTags(ctx context.Context) ([]models.Tag, error) {
	var resp struct {
		Tags []models.Tag `json:"tags"`
	}
	path := "/locations/" + url.PathEscape(c.cfg.LocationID) + "/tags"
	if _, err := c.http.Do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		c.logger.Error("Failed to fetch tags", map[string]interface{}{"error": errors.MessageOf(err)})
		return nil, err
	}
	if resp.Tags == nil {
		resp.Tags = []models.Tag{}
	}
	c.logger.Info("Fetched tags", map[string]interface{}{"count": len(resp.Tags)})
	return resp.Tags, nil
}

// cursorTimestamp converts an RFC3339 dateAdded into the epoch milliseconds the listing
// cursor expects. Other values pass through unchanged.
func cursorTimestamp(dateAdded string) string {
	dateAdded = strings.TrimSpace(dateAdded)
	if dateAdded == "" {
		return ""
	}
	if t, err := time.Parse(time.RFC3339, dateAdded); err == nil {
		return strconv.FormatInt(t.UnixMilli(), 10)
	}
	return dateAdded
}
