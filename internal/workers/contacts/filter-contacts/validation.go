package filtercontacts

import "crm-sync/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"tag": {
				Type:        "string",
				Description: "Only contacts carrying this tag",
				MaxLength:   validation.IntPtr(255),
			},
			"smartListId": {
				Type:        "string",
				Description: "Only contacts of this smart list",
				MaxLength:   validation.IntPtr(100),
			},
		},
		AdditionalProperties: false,
	}
}
