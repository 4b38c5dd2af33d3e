package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlan(t *testing.T) {
	tests := []struct {
		in      string
		want    Plan
		wantErr bool
	}{
		{in: "free", want: PlanFree},
		{in: "Standard", want: PlanStandard},
		{in: " PREMIUM ", want: PlanPremium},
		{in: "gold", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePlan(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownPlan)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlan_AllowsImages(t *testing.T) {
	assert.False(t, PlanFree.AllowsImages())
	assert.False(t, PlanStandard.AllowsImages())
	assert.True(t, PlanPremium.AllowsImages())
	assert.False(t, Plan("").AllowsImages())
}
