package fetchactivities

import "crm-sync/internal/common/validation"

var dateAfterPattern = `^$|^\d{4}-\d{2}-\d{2}`

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"activityType": {
				Type:        "string",
				Description: "Close activity type, e.g. Call, Email, Note, Meeting",
				MaxLength:   validation.IntPtr(50),
			},
			"dateAfter": {
				Type:        "string",
				Description: "Only activities created on or after this date (YYYY-MM-DD or ISO 8601)",
				Pattern:     &dateAfterPattern,
			},
		},
		AdditionalProperties: false,
	}
}
