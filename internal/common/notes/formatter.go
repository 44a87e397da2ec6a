// Package notes renders Close activities as plain-text GHL contact notes.
package notes

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"crm-sync/internal/models"
)

const sourceSystem = "Close CRM"

// Format renders an activity as a note body. Output is deterministic and never contains
// lines for absent optional fields.
func Format(a models.Activity) string {
	date := a.DateCreated
	if date == "" {
		date = a.ActivityAt
	}

	lines := []string{
		fmt.Sprintf("=== %s %s ===", sourceSystem, a.TypeLabel()),
		"Date: " + date,
	}

	var body []string
	switch {
	case a.Note != nil:
		body = formatNote(a.Note)
	case a.Call != nil:
		body = formatCall(a.Call)
	case a.EmailMsg != nil:
		body = formatEmail(a.EmailMsg)
	case a.Meeting != nil:
		body = formatMeeting(a.Meeting)
	case a.Other != nil:
		body = optional(nil, a.Other.Note)
	}

	if len(body) > 0 {
		lines = append(lines, "")
		lines = append(lines, body...)
	}
	return strings.Join(lines, "\n")
}

func formatNote(n *models.NoteActivity) []string {
	if n.Note != "" {
		return []string{n.Note}
	}
	return optional(nil, StripHTML(n.NoteHTML))
}

func formatCall(c *models.CallActivity) []string {
	direction := c.Direction
	if direction == "" {
		direction = "unknown"
	}

	lines := []string{
		"Direction: " + capitalize(direction),
		"Duration: " + FormatDuration(c.Duration),
		"Status: " + c.Status,
	}
	lines = labelled(lines, "Phone", c.Phone)
	lines = labelled(lines, "Disposition", c.Disposition)
	lines = labelled(lines, "Source", c.Source)
	lines = section(lines, "Call Notes", c.Note)
	lines = section(lines, "Call Recording", c.RecordingURL)
	lines = section(lines, "Voicemail", c.VoicemailURL)
	return lines
}

func formatEmail(e *models.EmailActivity) []string {
	direction := e.Direction
	if direction == "" {
		direction = "unknown"
	}
	subject := e.Subject
	if subject == "" {
		subject = "(no subject)"
	}

	lines := []string{
		"Direction: " + capitalize(direction),
		"Subject: " + subject,
	}
	lines = labelled(lines, "From", e.Sender)

	recipients := nonEmpty(e.To)
	if len(recipients) > 0 {
		lines = append(lines, "To: "+strings.Join(recipients, ", "))
	}

	if strings.TrimSpace(e.BodyText) != "" {
		lines = section(lines, "Email Body", e.BodyText)
	} else {
		lines = section(lines, "Preview", e.BodyPreview)
	}

	if len(e.Attachments) > 0 {
		lines = append(lines, "", "--- Attachments ---")
		for _, att := range e.Attachments {
			name := att.Filename
			if name == "" {
				name = "unnamed"
			}
			if att.URL != "" {
				lines = append(lines, name+": "+att.URL)
			} else {
				lines = append(lines, name)
			}
		}
	}
	return lines
}

func formatMeeting(m *models.MeetingActivity) []string {
	title := m.Title
	if title == "" {
		title = "(untitled)"
	}

	lines := []string{"Title: " + title}
	lines = labelled(lines, "Starts", m.StartsAt)
	lines = labelled(lines, "Ends", m.EndsAt)

	if len(m.Attendees) > 0 {
		names := make([]string, 0, len(m.Attendees))
		for _, att := range m.Attendees {
			switch {
			case att.Name != "":
				names = append(names, att.Name)
			case att.Email != "":
				names = append(names, att.Email)
			default:
				names = append(names, "unknown")
			}
		}
		lines = append(lines, "Attendees: "+strings.Join(names, ", "))
	}

	return section(lines, "Meeting Notes", StripHTML(m.UserNoteHTML))
}

// FormatDuration renders seconds as "2m 5s (125 seconds)", or "45s (45 seconds)" under a minute.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	mins, secs := seconds/60, seconds%60
	if mins > 0 {
		return fmt.Sprintf("%dm %ds (%d seconds)", mins, secs, seconds)
	}
	return fmt.Sprintf("%ds (%d seconds)", secs, seconds)
}

func labelled(lines []string, label, value string) []string {
	if strings.TrimSpace(value) == "" {
		return lines
	}
	return append(lines, label+": "+value)
}

func section(lines []string, title, content string) []string {
	if strings.TrimSpace(content) == "" {
		return lines
	}
	return append(lines, "", "--- "+title+" ---", content)
}

func optional(lines []string, value string) []string {
	if strings.TrimSpace(value) == "" {
		return lines
	}
	return append(lines, value)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
)

// StripHTML reduces markup to plain text, one line per block element, with empty lines dropped.
func StripHTML(content string) string {
	if content == "" {
		return ""
	}
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	var result []string
	for _, line := range strings.Split(content, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
