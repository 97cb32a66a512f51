package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema() JSONSchema {
	return JSONSchema{
		Type:     "object",
		Required: []string{"id", "type"},
		Properties: map[string]Property{
			"id": {AnyOf: []Property{
				{Type: "string", MinLength: intPtr(1)},
				{Type: "integer"},
			}},
			"type":        {Type: "string", MinLength: intPtr(1)},
			"actorUserId": {Type: "integer"},
		},
		AdditionalProperties: true,
	}
}

func intPtr(i int) *int { return &i }

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name      string
		input     map[string]interface{}
		wantValid bool
		wantField string
	}{
		{"numeric id", map[string]interface{}{"id": float64(12), "type": "feature", "actorUserId": float64(3)}, true, ""},
		{"string id", map[string]interface{}{"id": "12", "type": "feature"}, true, ""},
		{"extra process variables allowed", map[string]interface{}{"id": 1, "type": "feature", "orderId": "x"}, true, ""},
		{"missing type", map[string]interface{}{"id": 1}, false, "type"},
		{"fractional actor", map[string]interface{}{"id": 1, "type": "feature", "actorUserId": 1.5}, false, "actorUserId"},
		{"boolean id", map[string]interface{}{"id": true, "type": "feature"}, false, "id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateInput(tt.input, testSchema())
			require.NotNil(t, res)
			assert.Equal(t, tt.wantValid, res.Valid, res.GetErrorMessages())
			if tt.wantField != "" {
				assert.True(t, res.HasErrors(tt.wantField), res.GetErrorMessages())
			}
		})
	}
}

func TestGetSchemaFromJSON(t *testing.T) {
	schema, err := GetSchemaFromJSON(`{"type":"object","required":["id"],"properties":{"id":{"type":"integer"}},"additionalProperties":false}`)
	require.NoError(t, err)

	assert.False(t, ValidateInput(map[string]interface{}{"id": 1, "x": 2}, schema).Valid)
	assert.True(t, ValidateInput(map[string]interface{}{"id": 1}, schema).Valid)

	_, err = GetSchemaFromJSON("{")
	assert.Error(t, err)
}
