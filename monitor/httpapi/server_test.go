package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jiaziui/oxygensensor/monitor"
	"github.com/jiaziui/oxygensensor/oxygen"
)

func newTestServer(t *testing.T) (*Server, *monitor.Store, *monitor.PrometheusSink) {
	t.Helper()
	reg := prometheus.NewRegistry()
	prom, err := monitor.NewPrometheusSink(reg, 0x70)
	require.NoError(t, err)
	store := monitor.NewStore()
	return New(store, reg), store, prom
}

func TestServer_LatestEmpty(t *testing.T) {
	srv, _, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reading", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_Latest(t *testing.T) {
	srv, store, _ := newTestServer(t)
	ts := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	store.Publish(context.Background(), monitor.Reading{
		Concentration: 20.5,
		ProbeLife:     oxygen.ProbeLifeNormal,
		ProbeStatus:   "normal",
		Timestamp:     ts,
	})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reading", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 20.5, got["concentration"])
	assert.Equal(t, "normal", got["probe_life"])
	assert.NotContains(t, got, "error")
}

func TestServer_Metrics(t *testing.T) {
	srv, _, prom := newTestServer(t)
	prom.Publish(context.Background(), monitor.Reading{Concentration: 19.5, ProbeLife: oxygen.ProbeLifeNormal, Timestamp: time.Now()})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `oxygen_concentration_percent{address="0x70"} 19.5`)
}

func TestServer_Stream(t *testing.T) {
	srv, store, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				store.Publish(context.Background(), monitor.Reading{Concentration: 21})
			}
		}
	}()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var r monitor.Reading
	require.NoError(t, conn.ReadJSON(&r))
	assert.Equal(t, float32(21), r.Concentration)
}
