package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlertStatus_CanAdvanceTo(t *testing.T) {
	tests := []struct {
		from, to AlertStatus
		want     bool
	}{
		{AlertStatusPending, AlertStatusPending, true},
		{AlertStatusPending, AlertStatusInProgress, true},
		{AlertStatusInProgress, AlertStatusResolved, true},
		{AlertStatusResolved, AlertStatusResolved, true},
		{AlertStatusPending, AlertStatusResolved, false},
		{AlertStatusInProgress, AlertStatusPending, false},
		{AlertStatusResolved, AlertStatusInProgress, false},
		{AlertStatusPending, AlertStatus("CLOSED"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvanceTo(tt.to))
		})
	}
}
