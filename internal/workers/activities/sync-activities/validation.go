package syncactivities

import "crm-sync/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"activities"},
		Properties: map[string]validation.Property{
			"activities": {
				Type:        "array",
				Description: "Close activities as returned by fetchActivities",
				MinItems:    validation.IntPtr(1),
				Items: &validation.Property{
					Type:        "object",
					Description: "Close activity with its resolved _email",
					Properties: map[string]validation.Property{
						"_type":  {Type: "string"},
						"_email": {Type: "string"},
					},
				},
			},
		},
		AdditionalProperties: false,
	}
}
