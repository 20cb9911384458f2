package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAction(t *testing.T) {
	tests := []struct {
		name    string
		action  string
		points  int
		wantErr bool
	}{
		{"valid", "Recycle", 10, false},
		{"empty action", "", 10, true},
		{"whitespace action", "   ", 10, true},
		{"zero points", "Bike", 0, true},
		{"negative points", "Bike", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAction(tt.action, tt.points)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
