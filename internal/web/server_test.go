package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"staff-bot/internal/config"
	"staff-bot/internal/schedule"
	"staff-bot/internal/sheets"
)

// prepsCSV fills every weekday column so the endpoint works no matter
// which day the test runs on.
func prepsCSV() string {
	var b strings.Builder
	for row := 0; row < 17; row++ {
		cells := make([]string, 14)
		if row == 2 || row == 10 {
			for day := 0; day < 7; day++ {
				cells[day*2] = "Соус томатный"
				cells[day*2+1] = "3"
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteString("\n")
	}
	return b.String()
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, prepsCSV())
	}))
	t.Cleanup(backend.Close)

	client := sheets.NewClient(sheets.Options{
		PrepsDocID: "preps-doc",
		PrepsGID:   "42",
		BaseURL:    backend.URL,
	}, zap.NewNop())
	parser := schedule.NewParser(config.DefaultStaff(), zap.NewNop())
	svc := schedule.NewService(client, parser, time.UTC, zap.NewNop())
	return NewServer(svc, time.UTC, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["uptime"])
}

func TestPrepsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/preps", nil)
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Date      string              `json:"date"`
		IsMorning bool                `json:"is_morning"`
		Morning   []schedule.PrepItem `json:"morning"`
		Evening   []schedule.PrepItem `json:"evening"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Date)
	require.NotEmpty(t, body.Morning)
	assert.Equal(t, "Соус томатный", body.Morning[0].Name)
	assert.Equal(t, "3", body.Morning[0].Quantity)
	require.NotEmpty(t, body.Evening)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
