package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRegistrationStatus(t *testing.T) {
	cases := []struct {
		raw    string
		want   RegistrationStatus
		wantOK bool
	}{
		{"pending", RegistrationStatusPending, true},
		{"PENDING", RegistrationStatusPending, true},
		{"  Approved ", RegistrationStatusApproved, true},
		{"rejected", RegistrationStatusRejected, true},
		{"", "", false},
		{"banana", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseRegistrationStatus(tc.raw)
		assert.Equal(t, tc.wantOK, ok, "input %q", tc.raw)
		assert.Equal(t, tc.want, got, "input %q", tc.raw)
	}
}

func TestParseDecisionRejectsPending(t *testing.T) {
	_, ok := ParseDecision("pending")
	assert.False(t, ok)

	decision, ok := ParseDecision("approved")
	assert.True(t, ok)
	assert.Equal(t, RegistrationStatusApproved, decision)

	decision, ok = ParseDecision("REJECTED")
	assert.True(t, ok)
	assert.Equal(t, RegistrationStatusRejected, decision)
}
