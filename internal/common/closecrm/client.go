// Package closecrm is the Close CRM v1 API client.
package closecrm

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
	"crm-sync/internal/models"
)

const (
	Vendor = "Close"

	DefaultBaseURL       = "https://api.close.com/api/v1"
	DefaultPageSize      = 100
	DefaultMaxActivities = 5000

	UnknownContactName = "Unknown Contact"
	provenance         = "Synced from GoHighLevel"
)

type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	PageSize      int
	MaxActivities int
}

func ConfigFromApp(c config.CloseConfig) Config {
	return Config{
		APIKey:        c.APIKey,
		BaseURL:       c.BaseURL,
		Timeout:       config.GetDuration(c.Timeout),
		PageSize:      c.PageSize,
		MaxActivities: c.MaxActivities,
	}
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
	if c.MaxActivities <= 0 {
		c.MaxActivities = DefaultMaxActivities
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

	apiKey := cfg.APIKey
	return &Client{
		cfg: cfg,
		http: httpclient.NewClient(httpclient.Options{
			BaseURL: cfg.BaseURL,
			Vendor:  Vendor,
			Timeout: cfg.Timeout,
			Authorize: func(req *http.Request) {
				req.SetBasicAuth(apiKey, "")
			},
			ErrorFields: []string{"error", "message"},
			Logger:      log,
		}),
		logger: log,
	}
}

// BuildLead maps a GoHighLevel contact onto a Close lead with one embedded contact.
func BuildLead(contact models.Contact) models.Lead {
	name := contact.DisplayName()
	if name == "" {
		name = UnknownContactName
	}

	cc := models.CloseContact{
		Name:   name,
		Title:  strings.TrimSpace(contact.Title),
		Emails: []models.EmailEntry{},
		Phones: []models.PhoneEntry{},
		URLs:   []models.URLEntry{},
	}
	if email := strings.TrimSpace(contact.Email); email != "" {
		cc.Emails = append(cc.Emails, models.EmailEntry{Type: "office", Email: email})
	}
	if phone := strings.TrimSpace(contact.Phone); phone != "" {
		cc.Phones = append(cc.Phones, models.PhoneEntry{Type: "office", Phone: phone})
	}
	if website := strings.TrimSpace(contact.Website); website != "" {
		cc.URLs = append(cc.URLs, models.URLEntry{Type: "url", URL: website})
	}

	lead := models.Lead{
		Name:        name,
		Description: provenance,
		Contacts:    []models.CloseContact{cc},
	}
	if company := strings.TrimSpace(contact.CompanyName); company != "" {
		lead.Name = company
	}

	addr := models.Address{
		Address1: strings.TrimSpace(contact.Address1),
		City:     strings.TrimSpace(contact.City),
		State:    strings.TrimSpace(contact.State),
		Zipcode:  strings.TrimSpace(contact.PostalCode),
		Country:  strings.TrimSpace(contact.Country),
	}
	if !addr.IsEmpty() {
		lead.Addresses = []models.Address{addr}
	}

	if source := strings.TrimSpace(contact.Source); source != "" {
		lead.Description += " | Source: " + source
	}
	return lead
}

// CreateLeadFromContact builds and creates the lead for a GoHighLevel contact.
func (c *Client) CreateLeadFromContact(ctx context.Context, contact models.Contact) (*models.Lead, error) {
	return c.CreateLead(ctx, BuildLead(contact))
}

func (c *Client) CreateLead(ctx context.Context, lead models.Lead) (*models.Lead, error) {
	var created models.Lead
	if _, err := c.http.Do(ctx, http.MethodPost, "/lead/", nil, lead, &created); err != nil {
		c.logger.Error("Failed to create lead", map[string]interface{}{
			"lead":  lead.Name,
			"error": errors.MessageOf(err),
		})
		return nil, err
	}

	c.logger.Info("Lead created", map[string]interface{}{"leadId": created.ID, "lead": created.Name})
	return &created, nil
}

type leadSearchResponse struct {
	Data    []models.Lead `json:"data"`
	HasMore bool          `json:"has_more"`
}

// SearchLeadByEmail returns the leads Close matches for the address. Callers treat any
// result as an existing lead.
func (c *Client) SearchLeadByEmail(ctx context.Context, email string) ([]models.Lead, error) {
	params := url.Values{}
	params.Set("query", "email:"+email)

	var resp leadSearchResponse
	if _, err := c.http.Do(ctx, http.MethodGet, "/lead/", params, nil, &resp); err != nil {
		c.logger.Warn("Lead search failed", map[string]interface{}{
			"email": email,
			"error": errors.MessageOf(err),
		})
		return nil, err
	}
	if resp.Data == nil {
		resp.Data = []models.Lead{}
	}
	return resp.Data, nil
}

// ActivityQuery selects one offset page of the activity listing.
type ActivityQuery struct {
	Type      string
	Skip      int
	Limit     int
	DateAfter string
}

type ActivityPage struct {
	Activities []models.Activity `json:"data"`
	HasMore    bool              `json:"has_more"`
}

func (c *Client) FetchActivities(ctx context.Context, q ActivityQuery) (*ActivityPage, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = c.cfg.PageSize
	}

	params := url.Values{}
	params.Set("_skip", strconv.Itoa(q.Skip))
	params.Set("_limit", strconv.Itoa(limit))
	if q.Type != "" {
		params.Set("_type", q.Type)
	}
	if q.DateAfter != "" {
		params.Set("date_created__gte", q.DateAfter)
	}

	var page ActivityPage
	if _, err := c.http.Do(ctx, http.MethodGet, "/activity/", params, nil, &page); err != nil {
		c.logger.Error("Failed to fetch activities", map[string]interface{}{
			"skip":  q.Skip,
			"type":  q.Type,
			"error": errors.MessageOf(err),
		})
		return nil, err
	}
	if page.Activities == nil {
		page.Activities = []models.Activity{}
	}

	c.logger.Debug("Fetched activities", map[string]interface{}{
		"skip":    q.Skip,
		"count":   len(page.Activities),
		"hasMore": page.HasMore,
	})
	return &page, nil
}

func (c *Client) GetContact(ctx context.Context, contactID string) (*models.CloseContact, error) {
	var contact models.CloseContact
	path := "/contact/" + url.PathEscape(contactID) + "/"
	if _, err := c.http.Do(ctx, http.MethodGet, path, nil, nil, &contact); err != nil {
		c.logger.Warn("Failed to fetch contact", map[string]interface{}{
			"contactId": contactID,
			"error":     errors.MessageOf(err),
		})
		return nil, err
	}
	return &contact, nil
}
