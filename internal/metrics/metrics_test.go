package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	assert.NotPanics(t, func() {
		IncHTTP("analytics_series")
		IncQuery("metrics")
		AddQuality("unresolved_court", 2)
		AddQuality("unresolved_court", 0)
		IncReport()
		IncEvent("booking_created")
	})
}
