// internal/models/activity.go
package models

import (
	"encoding/json"
)

// ActivityType is the Close activity discriminator ("_type").
type ActivityType string

const (
	ActivityNote    ActivityType = "Note"
	ActivityCall    ActivityType = "Call"
	ActivityEmail   ActivityType = "Email"
	ActivityMeeting ActivityType = "Meeting"
)

// Activity is a Close activity. Exactly one variant pointer is set, selected by Type;
// unrecognised types land in Other.
type Activity struct {
	ID          string
	Type        ActivityType
	LeadID      string
	ContactID   string
	DateCreated string
	ActivityAt  string
	// Email is the resolved contact address ("_email").
	Email string

	Note     *NoteActivity
	Call     *CallActivity
	EmailMsg *EmailActivity
	Meeting  *MeetingActivity
	Other    *OtherActivity
}

type NoteActivity struct {
	Note     string
	NoteHTML string
}

type CallActivity struct {
	Direction    string
	Duration     int // seconds
	Status       string
	Phone        string
	Disposition  string
	Source       string
	Note         string
	RecordingURL string
	VoicemailURL string
}

type EmailActivity struct {
	Direction   string
	Subject     string
	Sender      string
	To          []string
	BodyText    string
	BodyPreview string
	Attachments []Attachment
}

type Attachment struct {
	Filename    string `json:"filename,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

type MeetingActivity struct {
	Title        string
	StartsAt     string
	EndsAt       string
	Attendees    []Attendee
	UserNoteHTML string
}

type Attendee struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type OtherActivity struct {
	Note string
}

// TypeLabel is the display name of the activity type.
func (a Activity) TypeLabel() string {
	if a.Type == "" {
		return "Activity"
	}
	return string(a.Type)
}

// wireActivity is the flat shape Close sends and the sync endpoint echoes.
type wireActivity struct {
	ID          string       `json:"id,omitempty"`
	Type        ActivityType `json:"_type"`
	LeadID      string       `json:"lead_id,omitempty"`
	ContactID   string       `json:"contact_id,omitempty"`
	DateCreated string       `json:"date_created,omitempty"`
	ActivityAt  string       `json:"activity_at,omitempty"`
	Email       string       `json:"_email,omitempty"`

	Note     string `json:"note,omitempty"`
	NoteHTML string `json:"note_html,omitempty"`

	Direction    string `json:"direction,omitempty"`
	Duration     int    `json:"duration,omitempty"`
	Status       string `json:"status,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Disposition  string `json:"disposition,omitempty"`
	Source       string `json:"source,omitempty"`
	RecordingURL string `json:"recording_url,omitempty"`
	VoicemailURL string `json:"voicemail_url,omitempty"`

	Subject     string       `json:"subject,omitempty"`
	Sender      string       `json:"sender,omitempty"`
	To          []string     `json:"to,omitempty"`
	BodyText    string       `json:"body_text,omitempty"`
	BodyPreview string       `json:"body_preview,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`

	Title        string     `json:"title,omitempty"`
	StartsAt     string     `json:"starts_at,omitempty"`
	EndsAt       string     `json:"ends_at,omitempty"`
	Attendees    []Attendee `json:"attendees,omitempty"`
	UserNoteHTML string     `json:"user_note_html,omitempty"`
}

func (a *Activity) UnmarshalJSON(data []byte) error {
	var w wireActivity
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*a = Activity{
		ID:          w.ID,
		Type:        w.Type,
		LeadID:      w.LeadID,
		ContactID:   w.ContactID,
		DateCreated: w.DateCreated,
		ActivityAt:  w.ActivityAt,
		Email:       w.Email,
	}

	switch w.Type {
	case ActivityNote:
		a.Note = &NoteActivity{Note: w.Note, NoteHTML: w.NoteHTML}
	case ActivityCall:
		a.Call = &CallActivity{
			Direction:    w.Direction,
			Duration:     w.Duration,
			Status:       w.Status,
			Phone:        w.Phone,
			Disposition:  w.Disposition,
			Source:       w.Source,
			Note:         w.Note,
			RecordingURL: w.RecordingURL,
			VoicemailURL: w.VoicemailURL,
		}
	case ActivityEmail:
		a.EmailMsg = &EmailActivity{
			Direction:   w.Direction,
			Subject:     w.Subject,
			Sender:      w.Sender,
			To:          w.To,
			BodyText:    w.BodyText,
			BodyPreview: w.BodyPreview,
			Attachments: w.Attachments,
		}
	case ActivityMeeting:
		a.Meeting = &MeetingActivity{
			Title:        w.Title,
			StartsAt:     w.StartsAt,
			EndsAt:       w.EndsAt,
			Attendees:    w.Attendees,
			UserNoteHTML: w.UserNoteHTML,
		}
	default:
		a.Other = &OtherActivity{Note: w.Note}
	}
	return nil
}

func (a Activity) MarshalJSON() ([]byte, error) {
	w := wireActivity{
		ID:          a.ID,
		Type:        a.Type,
		LeadID:      a.LeadID,
		ContactID:   a.ContactID,
		DateCreated: a.DateCreated,
		ActivityAt:  a.ActivityAt,
		Email:       a.Email,
	}

	switch {
	case a.Note != nil:
		w.Note = a.Note.Note
		w.NoteHTML = a.Note.NoteHTML
	case a.Call != nil:
		c := a.Call
		w.Direction = c.Direction
		w.Duration = c.Duration
		w.Status = c.Status
		w.Phone = c.Phone
		w.Disposition = c.Disposition
		w.Source = c.Source
		w.Note = c.Note
		w.RecordingURL = c.RecordingURL
		w.VoicemailURL = c.VoicemailURL
	case a.EmailMsg != nil:
		e := a.EmailMsg
		w.Direction = e.Direction
		w.Subject = e.Subject
		w.Sender = e.Sender
		w.To = e.To
		w.BodyText = e.BodyText
		w.BodyPreview = e.BodyPreview
		w.Attachments = e.Attachments
	case a.Meeting != nil:
		m := a.Meeting
		w.Title = m.Title
		w.StartsAt = m.StartsAt
		w.EndsAt = m.EndsAt
		w.Attendees = m.Attendees
		w.UserNoteHTML = m.UserNoteHTML
	case a.Other != nil:
		w.Note = a.Other.Note
	}

	return json.Marshal(w)
}
