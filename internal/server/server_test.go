package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/punchclock/internal/app"
	"github.com/alexanderramin/punchclock/internal/domain"
	"github.com/alexanderramin/punchclock/internal/engine"
	"github.com/alexanderramin/punchclock/internal/realtime"
	"github.com/alexanderramin/punchclock/internal/repository"
	"github.com/alexanderramin/punchclock/internal/service"
	"github.com/alexanderramin/punchclock/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func setupServer(t *testing.T) (*httptest.Server, *realtime.Hub) {
	t.Helper()
	database := testutil.NewTestDB(t)
	records := repository.NewSQLiteRecordRepo(database)
	notifications := repository.NewSQLiteNotificationRepo(database)
	hub := realtime.NewHub(notifications)
	eng := engine.New(testutil.NewTestUoW(database), hub,
		engine.WithClock(func() time.Time { return testutil.BaseDay }))

	mux := http.NewServeMux()
	registerRoutes(mux, Deps{
		Attendance: service.NewAttendanceService(eng, records,
			service.WithAttendanceClock(func() time.Time { return testutil.BaseDay })),
		Notifications: service.NewNotificationService(notifications, hub),
		Hub:           hub,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, hub
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestSubmitTransition_HTTP(t *testing.T) {
	srv, _ := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/attendance", map[string]string{
		"employeeId": "emp-1",
		"event":      "clock_in",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decodeBody[app.StatusView](t, resp)
	assert.Equal(t, domain.StatusWorking, view.Day.Status)
	assert.Equal(t, "2025-06-16", view.Day.Date)
}

func TestSubmitTransition_ErrorMapping(t *testing.T) {
	srv, _ := setupServer(t)

	// Clocking out while off is a client error.
	resp := postJSON(t, srv.URL+"/api/attendance", map[string]string{
		"employeeId": "emp-1",
		"event":      "clock_out",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// A closed day conflicts with any further transition.
	for _, event := range []string{"clock_in", "clock_out"} {
		resp = postJSON(t, srv.URL+"/api/attendance", map[string]string{
			"employeeId": "emp-2", "event": event,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp = postJSON(t, srv.URL+"/api/attendance", map[string]string{
		"employeeId": "emp-2", "event": "clock_in",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody[errorResponse](t, resp)
	assert.NotEmpty(t, body.Error)
}

func TestGetStatus_HTTP(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/status?employee_id=emp-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	view := decodeBody[app.StatusView](t, resp)
	assert.Equal(t, domain.StatusOff, view.Day.Status)

	resp2, err := http.Get(srv.URL + "/api/status")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp2.StatusCode)
}

func TestGetHistoryAndStats_HTTP(t *testing.T) {
	srv, _ := setupServer(t)

	for _, event := range []string{"clock_in", "clock_out"} {
		resp := postJSON(t, srv.URL+"/api/attendance", map[string]string{
			"employeeId": "emp-1", "event": event,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(srv.URL + "/api/history?employee_id=emp-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decodeBody[app.HistoryResponse](t, resp)
	require.Len(t, history.Days, 1)
	assert.True(t, history.Days[0].Closed)

	resp, err = http.Get(srv.URL + "/api/history?employee_id=emp-1&month=bogus")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/my-stats?employee_id=emp-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody[app.StatsView](t, resp)
	assert.Equal(t, 1, stats.WorkDaysThisMonth)
	assert.Equal(t, "2025-06", stats.Month)
}

func TestNotificationsEndpoints(t *testing.T) {
	srv, _ := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/notifications", map[string]string{
		"employeeId": "emp-1",
		"title":      "Reminder",
		"message":    "Timesheet due",
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	listResp, err := http.Get(srv.URL + "/api/notifications?employee_id=emp-1")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)
	views := decodeBody[[]app.NotificationView](t, listResp)
	require.Len(t, views, 1)
	assert.False(t, views[0].Read)

	readResp := postJSON(t, fmt.Sprintf("%s/api/notifications/%s/read", srv.URL, views[0].ID), nil)
	require.Equal(t, http.StatusOK, readResp.StatusCode)

	listResp2, err := http.Get(srv.URL + "/api/notifications?employee_id=emp-1")
	require.NoError(t, err)
	defer listResp2.Body.Close()
	views = decodeBody[[]app.NotificationView](t, listResp2)
	require.Len(t, views, 1)
	assert.True(t, views[0].Read)
}

// A transition accepted over HTTP reaches a live websocket subscriber.
func TestTransitionFansOutOverWebsocket(t *testing.T) {
	srv, hub := setupServer(t)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, err := websocket.Dial(wsURL, "", srv.URL)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	auth, err := realtime.NewEnvelope(realtime.TypeAuth, realtime.AuthPayload{EmployeeID: "emp-1"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(conn).Encode(auth))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(hub.ConnectedEmployees()) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	require.NotEmpty(t, hub.ConnectedEmployees())

	resp := postJSON(t, srv.URL+"/api/attendance", map[string]string{
		"employeeId": "emp-1", "event": "clock_in",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_ = conn.SetDeadline(time.Now().Add(2 * time.Second))
	var env realtime.Envelope
	require.NoError(t, json.NewDecoder(conn).Decode(&env))
	assert.Equal(t, realtime.TypeAttendance, env.Type)

	var payload realtime.AttendancePayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	assert.Equal(t, "emp-1", payload.EmployeeID)
	assert.Equal(t, domain.StatusWorking, payload.Status)
}

func TestHealthz(t *testing.T) {
	srv, _ := setupServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
