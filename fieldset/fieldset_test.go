package fieldset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowed(t *testing.T) {
	allowed := []string{"description", "completed"}

	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name: "all fields allowed",
			doc:  `{"description":"buy milk","completed":true}`,
		},
		{
			name: "subset allowed",
			doc:  `{"completed":false}`,
		},
		{
			name: "empty object passes",
			doc:  `{}`,
		},
		{
			name:    "single disallowed field",
			doc:     `{"owner_id":42}`,
			wantErr: "disallowed fields: owner_id",
		},
		{
			name:    "disallowed field next to allowed ones",
			doc:     `{"description":"x","priority":3}`,
			wantErr: "disallowed fields: priority",
		},
		{
			name:    "multiple disallowed fields sorted",
			doc:     `{"zeta":1,"alpha":2,"completed":true}`,
			wantErr: "disallowed fields: alpha, zeta",
		},
		{
			name:    "not an object",
			doc:     `[1,2,3]`,
			wantErr: "body must be a JSON object",
		},
		{
			name:    "invalid JSON",
			doc:     `{`,
			wantErr: "body must be a JSON object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Allowed([]byte(tt.doc), allowed...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAllowedEmptyWhitelist(t *testing.T) {
	err := Allowed([]byte(`{"anything":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "anything")
}
