// internal/models/contact.go
package models

// Contact is a GoHighLevel contact. Field names follow the GHL v2 contact schema.
type Contact struct {
	ID          string   `json:"id,omitempty"`
	LocationID  string   `json:"locationId,omitempty"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	Name        string   `json:"name,omitempty"`
	ContactName string   `json:"contactName,omitempty"`
	Email       string   `json:"email,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	Website     string   `json:"website,omitempty"`
	Title       string   `json:"title,omitempty"`
	Address1    string   `json:"address1,omitempty"`
	City        string   `json:"city,omitempty"`
	State       string   `json:"state,omitempty"`
	PostalCode  string   `json:"postalCode,omitempty"`
	Country     string   `json:"country,omitempty"`
	Source      string   `json:"source,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	DateAdded   string   `json:"dateAdded,omitempty"`
	DateUpdated string   `json:"dateUpdated,omitempty"`
}

// DisplayName is the best human label for the contact, empty when it has none.
func (c Contact) DisplayName() string {
	full := joinName(c.FirstName, c.LastName)
	switch {
	case full != "":
		return full
	case c.Name != "":
		return c.Name
	default:
		return c.ContactName
	}
}

// Tag is a location tag in GoHighLevel.
type Tag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	LocationID string `json:"locationId,omitempty"`
}
