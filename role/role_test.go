package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	tests := []struct {
		usertype, resource, action string
		want                       bool
	}{
		{Admin, "patient", "create", true},
		{Doctor, "patient", "create", false},
		{Doctor, "admission", "discharge", true},
		{Nurse, "admission", "discharge", false},
		{Nurse, "treatment", "administer", true},
		{Doctor, "treatment", "administer", false},
		{"receptionist", "patient", "view", false},
		{Admin, "unknown", "view", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Can(tt.usertype, tt.resource, tt.action), "%s %s:%s", tt.usertype, tt.resource, tt.action)
	}
}
