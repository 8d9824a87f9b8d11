package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry("barbershop", prometheus.NewRegistry())

	m.RecordReservation("created")
	m.RecordReservation("created")
	m.RecordReservation("slot_taken")
	m.RecordCascadeCancellation("regular")
	m.RecordNotification("customer_cancellation_sms", "sent")
	m.ObserveTransaction("serializable", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reservations.WithLabelValues("created")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reservations.WithLabelValues("slot_taken")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cascadeCancellations.WithLabelValues("regular")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("customer_cancellation_sms", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.txTotal.WithLabelValues("serializable", "rollback")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordReservation("created")
		m.ObserveHTTPRequest("GET", "/api/v1/slots", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.SetDBPoolStats("postgres", 1, 1, 0, 0)
	})
}
