// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveLogin("ok")
	m.ObserveLogin("ok")
	m.ObserveLogin("invalid_credentials")
	m.ObserveVerify("expired")
	m.ObserveLogout("ok")
	m.ObserveSwept(3)
	m.ObserveSwept(0)
	m.ObserveRequest(http.MethodPost, http.StatusUnauthorized, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.logins.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifications.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logouts.WithLabelValues("ok")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.swept))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodPost, "4xx")))
}

func TestNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveLogin("ok")
		m.ObserveVerify("ok")
		m.ObserveLogout("ok")
		m.ObserveSwept(1)
		m.ObserveRequest(http.MethodGet, 200, time.Second)
	})
	assert.Nil(t, m.Registry())
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveLogin("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `sessiongate_logins_total{outcome="ok"} 1`))
	assert.Contains(t, string(body), "go_goroutines")
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveLogin("ok")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.logins.WithLabelValues("ok")))
}
