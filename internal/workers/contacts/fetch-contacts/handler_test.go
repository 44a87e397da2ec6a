package fetchcontacts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crm-sync/internal/common/config"
	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

type MockContactLister struct {
	mock.Mock
}

func (m *MockContactLister) FetchAllContacts(ctx context.Context) ([]models.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Contact), args.Error(1)
}

func newTestHandler(t *testing.T, client ContactLister) *Handler {
	h, err := NewHandler(HandlerOptions{
		CustomConfig: &Config{Enabled: true},
		Logger:       logger.NewTestLogger(t),
		GHL:          client,
	})
	require.NoError(t, err)
	return h
}

func TestHandler_Handle_Success(t *testing.T) {
	client := &MockContactLister{}
	client.On("FetchAllContacts", mock.Anything).Return([]models.Contact{{ID: "c1"}, {ID: "c2"}}, nil)

	out, err := newTestHandler(t, client).Handle(context.Background(), map[string]interface{}{})
	require.NoError(t, err)

	output := out.(*Output)
	assert.True(t, output.Success)
	assert.Empty(t, output.Error)
	assert.Equal(t, 2, output.Total)
	assert.Len(t, output.Contacts, 2)
}

func TestHandler_Handle_PartialOnFailure(t *testing.T) {
	client := &MockContactLister{}
	client.On("FetchAllContacts", mock.Anything).
		Return([]models.Contact{{ID: "c1"}}, errors.NewVendorError("GHL", 429, "Too many requests"))

	out, err := newTestHandler(t, client).Handle(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 502, errors.HTTPStatus(errors.Normalize(err).Code))

	output, ok := out.(*Output)
	require.True(t, ok)
	assert.False(t, output.Success)
	assert.Equal(t, "GHL API error (HTTP 429): Too many requests", output.Error)
	assert.Equal(t, 1, output.Total)
	assert.Equal(t, "c1", output.Contacts[0].ID)
}

func TestHandler_Handle_EmptyPartialIsArray(t *testing.T) {
	client := &MockContactLister{}
	client.On("FetchAllContacts", mock.Anything).Return(nil, errors.NewParseError("GHL", 200, assert.AnError))

	out, err := newTestHandler(t, client).Handle(context.Background(), nil)
	require.Error(t, err)
	output := out.(*Output)
	assert.NotNil(t, output.Contacts)
	assert.Equal(t, 0, output.Total)
}

func TestHandler_Handle_RejectsUnknownFields(t *testing.T) {
	client := &MockContactLister{}

	_, err := newTestHandler(t, client).Handle(context.Background(), map[string]interface{}{"page": 2})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeValidationFailed, errors.Normalize(err).Code)
	client.AssertNotCalled(t, "FetchAllContacts", mock.Anything)
}

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: &Config{Enabled: true}})
	require.Error(t, err)

	h, err := NewHandler(HandlerOptions{
		AppConfig: &config.Config{
			Actions: map[string]config.ActionConfig{"fetch": {Enabled: false}},
		},
	})
	require.NoError(t, err)
	assert.False(t, h.IsEnabled())

	_, err = h.Handle(context.Background(), nil)
	assert.Equal(t, errors.ErrCodeActionDisabled, errors.Normalize(err).Code)
}
