package notes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"crm-sync/internal/models"
)

func TestFormat_Call(t *testing.T) {
	activity := models.Activity{
		Type:        models.ActivityCall,
		DateCreated: "2024-03-01T09:30:00Z",
		Call: &models.CallActivity{
			Direction:    "inbound",
			Duration:     125,
			Status:       "completed",
			Phone:        "+15550100",
			RecordingURL: "https://rec.example.com/1",
		},
	}

	want := strings.Join([]string{
		"=== Close CRM Call ===",
		"Date: 2024-03-01T09:30:00Z",
		"",
		"Direction: Inbound",
		"Duration: 2m 5s (125 seconds)",
		"Status: completed",
		"Phone: +15550100",
		"",
		"--- Call Recording ---",
		"https://rec.example.com/1",
	}, "\n")

	assert.Equal(t, want, Format(activity))
}

func TestFormat_CallDefaults(t *testing.T) {
	out := Format(models.Activity{
		Type:       models.ActivityCall,
		ActivityAt: "2024-03-02",
		Call:       &models.CallActivity{Duration: 42},
	})

	assert.Contains(t, out, "Date: 2024-03-02")
	assert.Contains(t, out, "Direction: Unknown")
	assert.Contains(t, out, "Duration: 42s (42 seconds)")
	assert.Contains(t, out, "Duration: 42s (42 seconds)\nStatus: ")
	assert.NotContains(t, out, "Phone:")
	assert.NotContains(t, out, "---")
}

func TestFormat_Email(t *testing.T) {
	activity := models.Activity{
		Type:        models.ActivityEmail,
		DateCreated: "2024-03-01",
		EmailMsg: &models.EmailActivity{
			Direction:   "outgoing",
			Sender:      "Jane <jane@example.com>",
			To:          []string{"bob@example.com", "", "amy@example.com"},
			BodyPreview: "Quick preview",
			Attachments: []models.Attachment{
				{Filename: "quote.pdf", URL: "https://files/quote.pdf"},
				{URL: ""},
			},
		},
	}

	want := strings.Join([]string{
		"=== Close CRM Email ===",
		"Date: 2024-03-01",
		"",
		"Direction: Outgoing",
		"Subject: (no subject)",
		"From: Jane <jane@example.com>",
		"To: bob@example.com, amy@example.com",
		"",
		"--- Preview ---",
		"Quick preview",
		"",
		"--- Attachments ---",
		"quote.pdf: https://files/quote.pdf",
		"unnamed",
	}, "\n")

	assert.Equal(t, want, Format(activity))
}

func TestFormat_EmailPrefersBodyText(t *testing.T) {
	out := Format(models.Activity{
		Type: models.ActivityEmail,
		EmailMsg: &models.EmailActivity{
			Subject:     "Hello",
			BodyText:    "Full body",
			BodyPreview: "Full",
		},
	})

	assert.Contains(t, out, "--- Email Body ---\nFull body")
	assert.NotContains(t, out, "--- Preview ---")
}

func TestFormat_Meeting(t *testing.T) {
	activity := models.Activity{
		Type:        models.ActivityMeeting,
		DateCreated: "2024-03-01",
		Meeting: &models.MeetingActivity{
			StartsAt:     "2024-03-05T10:00:00Z",
			Attendees:    []models.Attendee{{Name: "Jane"}, {Email: "bob@example.com"}, {}},
			UserNoteHTML: "<p>Agenda &amp; goals</p><ul><li>Pricing</li></ul>",
		},
	}

	want := strings.Join([]string{
		"=== Close CRM Meeting ===",
		"Date: 2024-03-01",
		"",
		"Title: (untitled)",
		"Starts: 2024-03-05T10:00:00Z",
		"Attendees: Jane, bob@example.com, unknown",
		"",
		"--- Meeting Notes ---",
		"Agenda & goals\nPricing",
	}, "\n")

	assert.Equal(t, want, Format(activity))
}

func TestFormat_NoteAndOther(t *testing.T) {
	tests := []struct {
		name     string
		activity models.Activity
		want     string
	}{
		{
			name: "plain note",
			activity: models.Activity{
				Type: models.ActivityNote, DateCreated: "d",
				Note: &models.NoteActivity{Note: "Called back", NoteHTML: "<b>ignored</b>"},
			},
			want: "=== Close CRM Note ===\nDate: d\n\nCalled back",
		},
		{
			name: "html note fallback",
			activity: models.Activity{
				Type: models.ActivityNote, DateCreated: "d",
				Note: &models.NoteActivity{NoteHTML: "<p>Left <b>voicemail</b></p>"},
			},
			want: "=== Close CRM Note ===\nDate: d\n\nLeft voicemail",
		},
		{
			name: "empty note has header only",
			activity: models.Activity{
				Type: models.ActivityNote, DateCreated: "d",
				Note: &models.NoteActivity{},
			},
			want: "=== Close CRM Note ===\nDate: d",
		},
		{
			name: "unknown type with note",
			activity: models.Activity{
				Type: "SMS", DateCreated: "d",
				Other: &models.OtherActivity{Note: "Text sent"},
			},
			want: "=== Close CRM SMS ===\nDate: d\n\nText sent",
		},
		{
			name: "unknown type without note",
			activity: models.Activity{
				Type: "LeadStatusChange", DateCreated: "d",
				Other: &models.OtherActivity{},
			},
			want: "=== Close CRM LeadStatusChange ===\nDate: d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.activity))
		})
	}
}

func TestFormat_NoStrayBlankLines(t *testing.T) {
	activities := []models.Activity{
		{Type: models.ActivityCall, Call: &models.CallActivity{}},
		{Type: models.ActivityEmail, EmailMsg: &models.EmailActivity{}},
		{Type: models.ActivityMeeting, Meeting: &models.MeetingActivity{}},
		{Type: models.ActivityNote, Note: &models.NoteActivity{}},
		{Type: "Other", Other: &models.OtherActivity{}},
	}

	for _, a := range activities {
		out := Format(a)
		assert.NotContains(t, out, "\n\n\n", string(a.Type))
		assert.False(t, strings.HasSuffix(out, "\n"), string(a.Type))
		assert.True(t, strings.HasPrefix(out, "=== Close CRM "), string(a.Type))
		assert.Equal(t, out, Format(a), "formatting must be deterministic")
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "2m 5s (125 seconds)", FormatDuration(125))
	assert.Equal(t, "1m 0s (60 seconds)", FormatDuration(60))
	assert.Equal(t, "59s (59 seconds)", FormatDuration(59))
	assert.Equal(t, "0s (0 seconds)", FormatDuration(0))
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "", StripHTML(""))
	assert.Equal(t, "Line one\nLine two", StripHTML("<div>Line one</div><br/><div>Line two</div>"))
	assert.Equal(t, "a < b", StripHTML("<span>a &lt; b</span><script>alert(1)</script>"))
}
