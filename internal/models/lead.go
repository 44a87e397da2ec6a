// internal/models/lead.go
package models

import "strings"

// Lead is a Close lead with its embedded contacts.
type Lead struct {
	ID          string         `json:"id,omitempty"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Contacts    []CloseContact `json:"contacts,omitempty"`
	Addresses   []Address      `json:"addresses,omitempty"`
}

// CloseContact is a contact record inside Close. Emails, phones and urls are always
// serialised as arrays.
type CloseContact struct {
	ID     string       `json:"id,omitempty"`
	LeadID string       `json:"lead_id,omitempty"`
	Name   string       `json:"name"`
	Title  string       `json:"title,omitempty"`
	Emails []EmailEntry `json:"emails"`
	Phones []PhoneEntry `json:"phones"`
	URLs   []URLEntry   `json:"urls"`
}

// PrimaryEmail returns the first non-empty email of the contact.
func (c CloseContact) PrimaryEmail() string {
	for _, e := range c.Emails {
		if addr := strings.TrimSpace(e.Email); addr != "" {
			return addr
		}
	}
	return ""
}

type EmailEntry struct {
	Type  string `json:"type"`
	Email string `json:"email"`
}

type PhoneEntry struct {
	Type  string `json:"type"`
	Phone string `json:"phone"`
}

type URLEntry struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

type Address struct {
	Address1 string `json:"address_1,omitempty"`
	City     string `json:"city,omitempty"`
	State    string `json:"state,omitempty"`
	Zipcode  string `json:"zipcode,omitempty"`
	Country  string `json:"country,omitempty"`
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

func joinName(first, last string) string {
	return strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
}
