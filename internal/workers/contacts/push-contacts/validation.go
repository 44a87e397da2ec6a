package pushcontacts

import "crm-sync/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"contacts"},
		Properties: map[string]validation.Property{
			"contacts": {
				Type:        "array",
				Description: "GoHighLevel contacts to create in Close",
				MinItems:    validation.IntPtr(1),
				Items: &validation.Property{
					Type:        "object",
					Description: "GoHighLevel contact record",
				},
			},
		},
		AdditionalProperties: false,
	}
}
