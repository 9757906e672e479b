package internal

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/daryadaneshmand/Oura-data/internal/arc"
	"github.com/daryadaneshmand/Oura-data/internal/config"
	"github.com/daryadaneshmand/Oura-data/internal/cycles"
	"github.com/daryadaneshmand/Oura-data/internal/daily"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(NewServerParams{
		Config: &config.Config{
			Environment:  "development",
			Host:         "localhost",
			Port:         9000,
			MetricsPort:  9001,
			SnapshotPath: filepath.Join(t.TempDir(), "daily.json"),
		},
		VersionInfo: "test-version",
	})
}

func doRequest(t *testing.T, s *Server, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()
	s.routerSetup().ServeHTTP(rec, req)
	return rec
}

func writeTestSnapshot(t *testing.T, s *Server, records []daily.Record) {
	t.Helper()
	require.NoError(t, s.snapshotStore.Write(records))
}

func testDayRecord(date string, readiness, resilience int, hrv float64) daily.Record {
	return daily.Record{
		Date:            date,
		ReadinessScore:  &readiness,
		ResilienceScore: &resilience,
		HRVBalance:      &hrv,
	}
}

func TestServer_Health(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "I'm OK, thanks", rec.Body.String())
}

func TestServer_Version(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/version")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test-version", rec.Body.String())
}

func TestServer_UnknownPath(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_Daily_NoSnapshot(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/daily")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run a fetch first")
}

func TestServer_Daily(t *testing.T) {
	s := newTestServer(t)
	writeTestSnapshot(t, s, []daily.Record{
		testDayRecord("2025-11-01", 80, 3, 0.2),
		testDayRecord("2025-11-02", 75, 2, -0.4),
	})

	rec := doRequest(t, s, "GET", "/daily")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var records []daily.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "2025-11-01", records[0].Date)
}

func TestServer_Cycles(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/cycles")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []cycles.Cycle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, cycles.All, got)
}

func TestServer_Arc(t *testing.T) {
	s := newTestServer(t)
	writeTestSnapshot(t, s, []daily.Record{
		testDayRecord("2025-11-01", 50, 3, 0),
		testDayRecord("2025-11-05", 80, 4, 0.5),
		testDayRecord("2025-12-25", 90, 5, 0.7), // outside cycle 1
	})

	rec := doRequest(t, s, "GET", "/arc/cycle_1")
	require.Equal(t, http.StatusOK, rec.Code)

	var got arc.Arc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "cycle_1", got.Cycle.ID)
	require.Len(t, got.Points, 2)
	require.Len(t, got.Segments, 1)
	assert.Equal(t, "2025-11-01", got.Segments[0].Day.Date)
	assert.NotEmpty(t, got.Path)
}

func TestServer_Arc_CustomFrame(t *testing.T) {
	s := newTestServer(t)
	writeTestSnapshot(t, s, []daily.Record{
		testDayRecord("2025-11-01", 0, 1, 0),
		testDayRecord("2025-11-05", 100, 5, 0),
	})

	rec := doRequest(t, s, "GET", "/arc/cycle_1?w=470&h=280")
	require.Equal(t, http.StatusOK, rec.Code)

	var got arc.Arc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Segments, 1)
	// inner area for 470x280 with the fixed margins is 400x200
	assert.Equal(t, [2]float64{0, 200}, got.Segments[0].From)
	assert.Equal(t, [2]float64{400, 0}, got.Segments[0].To)
}

func TestServer_Arc_UnknownCycle(t *testing.T) {
	s := newTestServer(t)
	writeTestSnapshot(t, s, nil)

	rec := doRequest(t, s, "GET", "/arc/cycle_99")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown cycle")
}

func TestServer_Arc_InvalidFrameParams(t *testing.T) {
	s := newTestServer(t)
	writeTestSnapshot(t, s, nil)

	for _, target := range []string{
		"/arc/cycle_1?w=banana",
		"/arc/cycle_1?h=-5",
		"/arc/cycle_1?w=0",
	} {
		rec := doRequest(t, s, "GET", target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestServer_Arc_NoSnapshot(t *testing.T) {
	rec := doRequest(t, newTestServer(t), "GET", "/arc/cycle_1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "run a fetch first")
}
