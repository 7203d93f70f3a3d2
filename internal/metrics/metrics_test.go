package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestEventMutationsCounter(t *testing.T) {
	before := testutil.ToFloat64(EventMutations.WithLabelValues("created"))
	EventMutations.WithLabelValues("created").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(EventMutations.WithLabelValues("created")))
}

func TestRegistryGathers(t *testing.T) {
	LoginAttempts.WithLabelValues("ok").Inc()
	families, err := Registry.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}
