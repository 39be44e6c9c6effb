package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/contactbook/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Record(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AuthEvent("login", nil)
	m.AuthEvent("login", errors.New("bad"))
	m.AuthEvent("login", errors.New("bad"))
	m.Mail("sent")
	m.SetMailQueueDepth(3)
	m.ObserveRPC("/contactbook.v1.ContactBook/Ping", "OK", 5*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", "ok")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.AuthEvents.WithLabelValues("login", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.MailMessages.WithLabelValues("sent")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.MailQueueDepth))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCDuration))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.AuthEvent("login", nil)
		m.Mail("sent")
		m.SetMailQueueDepth(1)
		m.ObserveRPC("x", "OK", time.Second)
	})
}

func TestServer_Endpoints(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.Mail("dropped")

	s := NewServer("127.0.0.1:0", reg, logging.Nop())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `contactbook_mail_messages_total{result="dropped"} 1`), body)
	assert.Contains(t, body, "go_goroutines")

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", prometheus.NewRegistry(), logging.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}

func TestServer_RunBadAddress(t *testing.T) {
	s := NewServer("127.0.0.1:99999", prometheus.NewRegistry(), logging.Nop())
	assert.Error(t, s.Run(context.Background()))
}
