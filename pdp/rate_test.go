package pdp_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/collecta/pdp-insights/pdp"
)

func secs(n int64) *int64 { return &n }

func TestComputeRate_PerConnectedHour(t *testing.T) {
	// 18 promises over 1800 seconds (half an hour) -> 36 per hour
	rate := pdp.ComputeRate(18, secs(1800))
	assert.True(t, rate.Equal(decimal.NewFromInt(36)), "got %s", rate)
}

func TestComputeRate_FractionalHours(t *testing.T) {
	// 5 promises over 4500 seconds (1.25 hours) -> 4
	rate := pdp.ComputeRate(5, secs(4500))
	assert.True(t, rate.Equal(decimal.NewFromInt(4)), "got %s", rate)
}

func TestComputeRate_GuardsZeroAndNil(t *testing.T) {
	assert.True(t, pdp.ComputeRate(18, nil).IsZero(), "nil connected time")
	assert.True(t, pdp.ComputeRate(18, secs(0)).IsZero(), "zero connected time")
	assert.True(t, pdp.ComputeRate(0, secs(3600)).IsZero(), "zero activity")
}

func TestComputeRate_Deterministic(t *testing.T) {
	first := pdp.ComputeRate(7, secs(1234))
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(pdp.ComputeRate(7, secs(1234))))
	}
}
