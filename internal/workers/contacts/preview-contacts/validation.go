package previewcontacts

import "crm-sync/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"query": {
				Type:        "string",
				Description: "Keyword filter passed to the GHL contact search",
				MaxLength:   validation.IntPtr(255),
			},
			"startAfterId": {
				Type:        "string",
				Description: "Id of the last contact of the previous page",
				MaxLength:   validation.IntPtr(100),
			},
			"startAfter": {
				Type:        "string",
				Description: "Cursor timestamp of the last contact of the previous page",
				MaxLength:   validation.IntPtr(100),
			},
		},
		AdditionalProperties: false,
	}
}
