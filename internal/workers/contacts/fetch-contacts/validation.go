package fetchcontacts

import "crm-sync/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Properties:           map[string]validation.Property{},
		AdditionalProperties: false,
	}
}
