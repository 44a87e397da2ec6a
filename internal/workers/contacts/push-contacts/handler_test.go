package pushcontacts

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"crm-sync/internal/common/config"
	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

// ==========================
// Mock Close Client
// ==========================

type MockLeadWriter struct {
	mock.Mock
}

func (m *MockLeadWriter) SearchLeadByEmail(ctx context.Context, email string) ([]models.Lead, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Lead), args.Error(1)
}

func (m *MockLeadWriter) CreateLeadFromContact(ctx context.Context, contact models.Contact) (*models.Lead, error) {
	args := m.Called(ctx, contact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lead), args.Error(1)
}

// ==========================
// Test Helpers
// ==========================

func createValidConfig() *Config {
	return &Config{Enabled: true}
}

func newTestHandler(t *testing.T, client LeadWriter) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: createValidConfig(),
		Logger:       logger.NewTestLogger(t),
		Close:        client,
	})
	require.NoError(t, err)
	return h
}

func contactsPayload(contacts ...map[string]interface{}) map[string]interface{} {
	items := make([]interface{}, len(contacts))
	for i, c := range contacts {
		items[i] = c
	}
	return map[string]interface{}{"contacts": items}
}

func withEmail(email string) func(models.Contact) bool {
	return func(c models.Contact) bool { return c.Email == email }
}

func pushResults(t *testing.T, out interface{}) *models.PushResults {
	output, ok := out.(*Output)
	require.True(t, ok)
	assert.True(t, output.Success)
	require.NotNil(t, output.Results)
	return output.Results
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name: "valid configuration",
			opts: HandlerOptions{
				CustomConfig: createValidConfig(),
				Logger:       logger.NewNoOpLogger(),
				Close:        &MockLeadWriter{},
			},
		},
		{
			name: "client built from app config",
			opts: HandlerOptions{
				AppConfig: &config.Config{},
			},
		},
		{
			name: "negative interval",
			opts: HandlerOptions{
				CustomConfig: &Config{Enabled: true, Interval: -time.Second},
				Close:        &MockLeadWriter{},
			},
			wantErr: true,
			errMsg:  "interval must not be negative",
		},
		{
			name:    "no client and no app config",
			opts:    HandlerOptions{CustomConfig: createValidConfig()},
			wantErr: true,
			errMsg:  "requires a Close client",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, err := NewHandler(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				assert.Nil(t, handler)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ActionName, handler.GetActionName())
			assert.True(t, handler.IsEnabled())
		})
	}
}

// ==========================
// Input Validation Tests
// ==========================

func TestHandler_Handle_RejectsEmptyBatch(t *testing.T) {
	tests := []struct {
		name      string
		variables map[string]interface{}
		message   string
	}{
		{name: "missing contacts", variables: map[string]interface{}{}, message: "No contacts provided"},
		{name: "empty contacts", variables: map[string]interface{}{"contacts": []interface{}{}}, message: "No contacts provided"},
		{name: "contacts not an array", variables: map[string]interface{}{"contacts": "a@x.com"}, message: "No contacts provided"},
		{
			name:      "contact is not an object",
			variables: map[string]interface{}{"contacts": []interface{}{"a@x.com"}},
			message:   "Input validation failed",
		},
		{
			name: "unknown field",
			variables: map[string]interface{}{
				"contacts": []interface{}{map[string]interface{}{"email": "a@x.com"}},
				"force":    true,
			},
			message: "Input validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &MockLeadWriter{}
			out, err := newTestHandler(t, client).Handle(context.Background(), tt.variables)

			require.Error(t, err)
			assert.Nil(t, out)
			stdErr := errors.Normalize(err)
			assert.Equal(t, errors.ErrCodeValidationFailed, stdErr.Code)
			assert.Equal(t, tt.message, stdErr.Message)
			client.AssertNotCalled(t, "SearchLeadByEmail", mock.Anything, mock.Anything)
			client.AssertNotCalled(t, "CreateLeadFromContact", mock.Anything, mock.Anything)
		})
	}
}

func TestHandler_Handle_Disabled(t *testing.T) {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: false},
		Logger:       logger.NewTestLogger(t),
		Close:        &MockLeadWriter{},
	})
	require.NoError(t, err)

	_, err = h.Handle(context.Background(), contactsPayload(map[string]interface{}{"email": "a@x.com"}))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeActionDisabled, errors.Normalize(err).Code)
}

// ==========================
// Push Policy Tests
// ==========================

func TestHandler_Handle_SkipsExistingLeads(t *testing.T) {
	client := &MockLeadWriter{}
	client.On("SearchLeadByEmail", mock.Anything, "a@x.com").Return([]models.Lead{{ID: "lead_1"}}, nil)

	out, err := newTestHandler(t, client).Handle(context.Background(), contactsPayload(
		map[string]interface{}{"email": "a@x.com", "firstName": "Ann"},
	))
	require.NoError(t, err)

	results := pushResults(t, out)
	assert.Equal(t, 1, results.Skipped)
	assert.Equal(t, 0, results.Created)
	assert.Equal(t, []models.ItemDetail{{
		Name:   "Ann",
		Email:  "a@x.com",
		Status: models.StatusSkipped,
		Reason: "Already exists in Close",
	}}, results.Details)
	client.AssertNotCalled(t, "CreateLeadFromContact", mock.Anything, mock.Anything)
}

func TestHandler_Handle_MissingEmailAlwaysCreates(t *testing.T) {
	client := &MockLeadWriter{}
	client.On("CreateLeadFromContact", mock.Anything, mock.Anything).Return(&models.Lead{ID: "lead_9"}, nil)

	out, err := newTestHandler(t, client).Handle(context.Background(), contactsPayload(
		map[string]interface{}{"firstName": "No", "lastName": "Email"},
		map[string]interface{}{"email": "   ", "name": "Blank"},
	))
	require.NoError(t, err)

	results := pushResults(t, out)
	assert.Equal(t, 2, results.Created)
	assert.Equal(t, "No Email", results.Details[0].Name)
	assert.Equal(t, "lead_9", results.Details[0].LeadID)
	client.AssertNotCalled(t, "SearchLeadByEmail", mock.Anything, mock.Anything)
	client.AssertNumberOfCalls(t, "CreateLeadFromContact", 2)
}

func TestHandler_Handle_MixedBatch(t *testing.T) {
	client := &MockLeadWriter{}
	client.On("SearchLeadByEmail", mock.Anything, "a@x.com").Return([]models.Lead{{ID: "lead_1"}}, nil)
	client.On("CreateLeadFromContact", mock.Anything, mock.MatchedBy(withEmail(""))).Return(&models.Lead{ID: "lead_2"}, nil)

	out, err := newTestHandler(t, client).Handle(context.Background(), contactsPayload(
		map[string]interface{}{"email": "a@x.com"},
		map[string]interface{}{"email": ""},
		map[string]interface{}{"email": "a@x.com"},
	))
	require.NoError(t, err)

	results := pushResults(t, out)
	assert.Equal(t, 2, results.Skipped)
	assert.Equal(t, 1, results.Created)
	assert.Equal(t, 0, results.Failed)
	require.Len(t, results.Details, 3)
	assert.Equal(t, models.StatusSkipped, results.Details[0].Status)
	assert.Equal(t, models.StatusCreated, results.Details[1].Status)
	assert.Equal(t, "Unknown", results.Details[1].Name)
	assert.Equal(t, models.StatusSkipped, results.Details[2].Status)
	client.AssertNumberOfCalls(t, "CreateLeadFromContact", 1)
}

func TestHandler_Handle_BatchIsolation(t *testing.T) {
	client := &MockLeadWriter{}
	client.On("SearchLeadByEmail", mock.Anything, mock.Anything).Return([]models.Lead{}, nil)
	client.On("CreateLeadFromContact", mock.Anything, mock.MatchedBy(withEmail("c3@x.com"))).
		Return(nil, errors.NewVendorError("Close", 500, "boom"))
	client.On("CreateLeadFromContact", mock.Anything, mock.Anything).Return(&models.Lead{ID: "lead_ok"}, nil)

	contacts := make([]map[string]interface{}, 5)
	for i := range contacts {
		contacts[i] = map[string]interface{}{"email": fmt.Sprintf("c%d@x.com", i+1)}
	}

	out, err := newTestHandler(t, client).Handle(context.Background(), contactsPayload(contacts...))
	require.NoError(t, err)

	results := pushResults(t, out)
	assert.Equal(t, 4, results.Created)
	assert.Equal(t, 1, results.Failed)
	require.Len(t, results.Details, 5)
	assert.Equal(t, models.StatusFailed, results.Details[2].Status)
	assert.Equal(t, "Close API error (HTTP 500): boom", results.Details[2].Reason)
	assert.Equal(t, models.StatusCreated, results.Details[3].Status)
	assert.Equal(t, models.StatusCreated, results.Details[4].Status)
	assert.Equal(t, "c5@x.com", results.Details[4].Email)
}

func TestHandler_Handle_SearchFailureStillCreates(t *testing.T) {
	client := &MockLeadWriter{}
	client.On("SearchLeadByEmail", mock.Anything, "a@x.com").
		Return(nil, errors.NewTransportError("Close", fmt.Errorf("timeout")))
	client.On("CreateLeadFromContact", mock.Anything, mock.Anything).Return(&models.Lead{ID: "lead_1"}, nil)

	core, logs := observer.New(zap.WarnLevel)
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true},
		Logger:       logger.NewZapAdapter(zap.New(core)),
		Close:        client,
	})
	require.NoError(t, err)

	out, err := h.Handle(context.Background(), contactsPayload(
		map[string]interface{}{"email": "a@x.com"},
	))
	require.NoError(t, err)

	results := pushResults(t, out)
	assert.Equal(t, 1, results.Created)
	assert.Equal(t, "lead_1", results.Details[0].LeadID)

	warnings := logs.FilterMessage("Duplicate check failed").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "a@x.com", warnings[0].ContextMap()["email"])
	assert.Contains(t, warnings[0].ContextMap()["error"], "Close request failed: timeout")
}

func TestHandler_Handle_ThrottlesCalls(t *testing.T) {
	client := &MockLeadWriter{}
	client.On("CreateLeadFromContact", mock.Anything, mock.Anything).Return(&models.Lead{ID: "lead"}, nil)

	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true, Interval: 30 * time.Millisecond},
		Logger:       logger.NewTestLogger(t),
		Close:        client,
	})
	require.NoError(t, err)

	start := time.Now()
	_, err = h.Handle(context.Background(), contactsPayload(
		map[string]interface{}{"name": "a"},
		map[string]interface{}{"name": "b"},
		map[string]interface{}{"name": "c"},
	))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 55*time.Millisecond)
}

// ==========================
// Configuration Tests
// ==========================

func TestCreateConfigFromAppConfig(t *testing.T) {
	tests := []struct {
		name         string
		appConfig    *config.Config
		customConfig *Config
		want         *Config
	}{
		{
			name: "custom config wins",
			appConfig: &config.Config{
				Sync: config.SyncConfig{PushIntervalMs: 500},
			},
			customConfig: &Config{Enabled: true, Interval: time.Second},
			want:         &Config{Enabled: true, Interval: time.Second},
		},
		{
			name: "action settings from app config",
			appConfig: &config.Config{
				Actions: map[string]config.ActionConfig{"push": {Enabled: false, Timeout: 60000}},
				Sync:    config.SyncConfig{PushIntervalMs: 250},
			},
			want: &Config{Enabled: false, Timeout: time.Minute, Interval: 250 * time.Millisecond},
		},
		{
			name:      "zero interval disables throttling",
			appConfig: &config.Config{},
			want:      &Config{Enabled: true},
		},
		{
			name: "defaults without app config",
			want: DefaultConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, createConfigFromAppConfig(tt.appConfig, tt.customConfig))
		})
	}
}
