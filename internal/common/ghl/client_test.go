package ghl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-sync/internal/common/errors"
	"crm-sync/internal/common/logger"
	"crm-sync/internal/models"
)

func newTestClient(t *testing.T, server *httptest.Server, pageLimit, maxContacts int) *Client {
	return NewClient(Config{
		APIKey:      "pit-test-token-000000000000",
		LocationID:  "loc-1",
		BaseURL:     server.URL,
		PageLimit:   pageLimit,
		MaxContacts: maxContacts,
	}, logger.NewTestLogger(t))
}

func makeContacts(start, n int) []models.Contact {
	out := make([]models.Contact, n)
	for i := range out {
		id := start + i
		out[i] = models.Contact{
			ID:        fmt.Sprintf("c%d", id),
			Email:     fmt.Sprintf("user%d@example.com", id),
			DateAdded: "2024-01-01T00:00:00Z",
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_SendsAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer pit-test-token-000000000000", r.Header.Get("Authorization"))
		assert.Equal(t, "2021-07-28", r.Header.Get("Version"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, map[string]interface{}{"tags": []models.Tag{{ID: "t1", Name: "vip"}}})
	}))
	defer server.Close()

	tags, err := newTestClient(t, server, 100, 5000).GetTags(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: "t1", Name: "vip"}}, tags)
}

func TestClient_SearchContacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "loc-1", q.Get("locationId"))
		assert.Equal(t, "100", q.Get("limit"))
		assert.Equal(t, "jane", q.Get("query"))
		assert.Equal(t, "c9", q.Get("startAfterId"))
		assert.Equal(t, "1704067200000", q.Get("startAfter"))
		assert.Empty(t, q.Get("page"))

		writeJSON(w, map[string]interface{}{
			"contacts": []models.Contact{{ID: "c10", DateAdded: "2024-01-02T00:00:00.000Z"}},
			"total":    11,
		})
	}))
	defer server.Close()

	page, err := newTestClient(t, server, 100, 5000).SearchContacts(context.Background(), ContactQuery{
		Query:        "jane",
		StartAfterID: "c9",
		StartAfter:   "1704067200000",
	})
	require.NoError(t, err)
	assert.Equal(t, 11, page.Total)
	assert.Len(t, page.Contacts, 1)
	assert.Equal(t, "c10", page.NextStartAfterID)
	assert.Equal(t, "1704153600000", page.NextStartAfter)
}

func TestClient_FetchAllContacts_Termination(t *testing.T) {
	tests := []struct {
		name        string
		pageLimit   int
		maxContacts int
		pages       [][]models.Contact
		total       int
		wantCount   int
		wantCalls   int32
	}{
		{
			name:      "short page stops",
			pageLimit: 3,
			pages:     [][]models.Contact{makeContacts(0, 3), makeContacts(3, 2)},
			total:     100,
			wantCount: 5,
			wantCalls: 2,
		},
		{
			name:      "reported total reached stops even with full pages",
			pageLimit: 3,
			pages:     [][]models.Contact{makeContacts(0, 3), makeContacts(3, 3), makeContacts(6, 3)},
			total:     6,
			wantCount: 6,
			wantCalls: 2,
		},
		{
			name:      "empty page stops",
			pageLimit: 3,
			pages:     [][]models.Contact{makeContacts(0, 3), {}},
			total:     100,
			wantCount: 3,
			wantCalls: 2,
		},
		{
			name:        "safety cap stops a vendor that never signals the end",
			pageLimit:   2,
			maxContacts: 5,
			pages:       nil, // server always returns a full page
			total:       1000000,
			wantCount:   5,
			wantCalls:   3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				var contacts []models.Contact
				if tt.pages == nil {
					contacts = makeContacts(int(n)*100, tt.pageLimit)
				} else if int(n) <= len(tt.pages) {
					contacts = tt.pages[n-1]
				}
				if n > 1 {
					assert.NotEmpty(t, r.URL.Query().Get("startAfterId"))
					assert.NotEmpty(t, r.URL.Query().Get("startAfter"))
				}
				writeJSON(w, map[string]interface{}{"contacts": contacts, "total": tt.total})
			}))
			defer server.Close()

			contacts, err := newTestClient(t, server, tt.pageLimit, tt.maxContacts).FetchAllContacts(context.Background())
			require.NoError(t, err)
			assert.Len(t, contacts, tt.wantCount)
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestClient_FetchAllContacts_PartialOnError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			writeJSON(w, map[string]string{"message": "upstream down"})
			return
		}
		writeJSON(w, map[string]interface{}{"contacts": makeContacts(0, 2), "total": 10})
	}))
	defer server.Close()

	contacts, err := newTestClient(t, server, 2, 5000).FetchAllContacts(context.Background())
	require.Error(t, err)
	assert.Len(t, contacts, 2)
	assert.Equal(t, "GHL API error (HTTP 500): upstream down", errors.MessageOf(err))
}

func TestClient_LookupContactByEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		switch r.URL.Query().Get("query") {
		case "Jane@Example.com":
			writeJSON(w, map[string]interface{}{"contacts": []models.Contact{
				{ID: "near", Email: "jane@example.com.au"},
				{ID: "exact", Email: "JANE@example.COM"},
			}})
		case "jan@example.com":
			// fuzzy vendor search returns only near matches
			writeJSON(w, map[string]interface{}{"contacts": []models.Contact{
				{ID: "near", Email: "jane@example.com"},
			}})
		default:
			writeJSON(w, map[string]interface{}{"contacts": []models.Contact{}})
		}
	}))
	defer server.Close()

	client := newTestClient(t, server, 100, 5000)
	ctx := context.Background()

	contact, err := client.LookupContactByEmail(ctx, "Jane@Example.com")
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "exact", contact.ID)

	contact, err = client.LookupContactByEmail(ctx, "jan@example.com")
	require.NoError(t, err)
	assert.Nil(t, contact)

	contact, err = client.LookupContactByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, contact)
}

func TestClient_CreateNote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contacts/c1/notes", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"body":"=== Close CRM Note ==="}`, string(raw))
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, map[string]interface{}{"note": map[string]string{"id": "n1", "body": "=== Close CRM Note ==="}})
	}))
	defer server.Close()

	note, err := newTestClient(t, server, 100, 5000).CreateNote(context.Background(), "c1", "=== Close CRM Note ===")
	require.NoError(t, err)
	assert.Equal(t, "n1", note.ID)
}

func TestClient_CreateNote_VendorError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		writeJSON(w, map[string]interface{}{"message": []string{"body should not be empty"}})
	}))
	defer server.Close()

	_, err := newTestClient(t, server, 100, 5000).CreateNote(context.Background(), "c1", "")
	require.Error(t, err)
	assert.Equal(t, "GHL API error (HTTP 422): body should not be empty", errors.MessageOf(err))
}

func TestClient_SearchContactsAdvanced(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts/search", r.URL.Path)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "loc-1", body["locationId"])
		assert.Equal(t, "sl-1", body["smartListId"])
		groups := body["filterGroups"].([]interface{})
		filter := groups[0].(map[string]interface{})["filters"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "tags", filter["field"])
		assert.Equal(t, "contains", filter["operator"])
		assert.Equal(t, "vip", filter["value"])

		switch atomic.AddInt32(&calls, 1) {
		case 1:
			assert.Nil(t, body["searchAfter"])
			writeJSON(w, map[string]interface{}{
				"contacts": []models.Contact{{ID: "1", Email: "a@x.com"}, {ID: "2"}},
				"meta":     map[string]interface{}{"searchAfter": []interface{}{1700000000000, "2"}},
			})
		default:
			assert.Equal(t, []interface{}{float64(1700000000000), "2"}, body["searchAfter"])
			writeJSON(w, map[string]interface{}{
				"contacts": []models.Contact{{ID: "3", Email: "c@x.com"}},
				"meta":     map[string]interface{}{},
			})
		}
	}))
	defer server.Close()

	contacts, err := newTestClient(t, server, 2, 5000).SearchContactsAdvanced(context.Background(), AdvancedQuery{
		Tag:         "vip",
		SmartListID: "sl-1",
	})
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "1", contacts[0].ID)
	assert.Equal(t, "3", contacts[1].ID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestCursorTimestamp(t *testing.T) {
	assert.Equal(t, "1704067200000", cursorTimestamp("2024-01-01T00:00:00Z"))
	assert.Equal(t, "1704067200123", cursorTimestamp("2024-01-01T00:00:00.123Z"))
	assert.Equal(t, "1704067200000", cursorTimestamp("1704067200000"))
	assert.Equal(t, "", cursorTimestamp(""))
	assert.Equal(t, strconv.Itoa(0), cursorTimestamp("1970-01-01T00:00:00Z"))
}
