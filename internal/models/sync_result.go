// internal/models/sync_result.go
package models

// ItemStatus is the terminal state of one batch item.
type ItemStatus string

const (
	StatusCreated ItemStatus = "created"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
	StatusSynced  ItemStatus = "synced"
	StatusNoMatch ItemStatus = "noMatch"
)

// ItemDetail reports the outcome of one batch item.
type ItemDetail struct {
	Name   string     `json:"name,omitempty"`
	Type   string     `json:"type,omitempty"`
	Email  string     `json:"email"`
	Status ItemStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
	LeadID string     `json:"leadId,omitempty"`
}

// PushResults aggregates a contact push. Counters always agree with Details.
type PushResults struct {
	Created int          `json:"created"`
	Skipped int          `json:"skipped"`
	Failed  int          `json:"failed"`
	Details []ItemDetail `json:"details"`
}

func NewPushResults() *PushResults {
	return &PushResults{Details: []ItemDetail{}}
}

func (r *PushResults) Append(d ItemDetail) {
	switch d.Status {
	case StatusCreated:
		r.Created++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Details = append(r.Details, d)
}

// ActivitySyncResults aggregates an activity sync.
type ActivitySyncResults struct {
	Synced  int          `json:"synced"`
	NoMatch int          `json:"noMatch"`
	Failed  int          `json:"failed"`
	Details []ItemDetail `json:"details"`
}

func NewActivitySyncResults() *ActivitySyncResults {
	return &ActivitySyncResults{Details: []ItemDetail{}}
}

func (r *ActivitySyncResults) Append(d ItemDetail) {
	switch d.Status {
	case StatusSynced:
		r.Synced++
	case StatusNoMatch:
		r.NoMatch++
	case StatusFailed:
		r.Failed++
	}
	r.Details = append(r.Details, d)
}
