package http

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testWorkerID     = "0190b8a4-3c52-7d8e-9f01-000000000a01"
	testEventID      = "0190b8a4-3c52-7d8e-9f01-000000000e01"
	testAttendanceID = "0190b8a4-3c52-7d8e-9f01-000000000c01"
	testAppID        = "0190b8a4-3c52-7d8e-9f01-000000000b01"
)

type fakeAttendanceService struct {
	checkIn       attendance.CheckInRequest
	checkOut      attendance.CheckOutRequest
	adminCheckIn  attendance.AdminCheckInRequest
	adminCheckOut attendance.AdminCheckOutRequest
	err           error
}

func (f *fakeAttendanceService) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.CheckInResponse, error) {
	f.checkIn = req
	if f.err != nil {
		return attendance.CheckInResponse{}, f.err
	}
	return attendance.CheckInResponse{AttendanceID: testAttendanceID, EventID: testEventID, EventTitle: "Concert Setup"}, nil
}

func (f *fakeAttendanceService) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.CheckOutResponse, error) {
	f.checkOut = req
	if f.err != nil {
		return attendance.CheckOutResponse{}, f.err
	}
	return attendance.CheckOutResponse{AttendanceID: req.AttendanceID, WorkedMinutes: 510}, nil
}

func (f *fakeAttendanceService) AdminCheckIn(ctx context.Context, req attendance.AdminCheckInRequest) (attendance.AdminActionResponse, error) {
	f.adminCheckIn = req
	if err := req.Validate(); err != nil {
		return attendance.AdminActionResponse{}, err
	}
	return attendance.AdminActionResponse{AttendanceID: testAttendanceID, Method: req.Provenance().Method}, f.err
}

func (f *fakeAttendanceService) AdminCheckOut(ctx context.Context, req attendance.AdminCheckOutRequest) (attendance.AdminActionResponse, error) {
	f.adminCheckOut = req
	return attendance.AdminActionResponse{AttendanceID: req.AttendanceID, Method: req.Provenance().Method}, f.err
}

func (f *fakeAttendanceService) GetOpen(ctx context.Context, workerID string) (attendance.AttendanceResponse, error) {
	return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
}

type fakeLocationService struct {
	req location.ReportRequest
}

func (f *fakeLocationService) Report(ctx context.Context, req location.ReportRequest) (location.ReportResponse, error) {
	f.req = req
	return location.ReportResponse{EventID: req.EventID}, nil
}

type fakeConfirmationService struct {
	req confirmation.ListRequest
}

func (f *fakeConfirmationService) ListConfirmedWorkers(ctx context.Context, req confirmation.ListRequest) (confirmation.ListWorkersResponse, error) {
	f.req = req
	return confirmation.ListWorkersResponse{EventID: req.EventID, WithinRangeOnly: req.WithinRangeOnly}, nil
}

type testServer struct {
	handler      http.Handler
	jwt          jwt.Service
	hub          *sse.Hub
	attendance   *fakeAttendanceService
	location     *fakeLocationService
	confirmation *fakeConfirmationService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		jwt:          jwt.NewJWTService("router-test-secret", "1h"),
		hub:          sse.NewHub(),
		attendance:   &fakeAttendanceService{},
		location:     &fakeLocationService{},
		confirmation: &fakeConfirmationService{},
	}

	ts.handler = NewRouter(
		RouterConfig{AppName: "test", Version: "test", Env: "test", LogLevel: slog.LevelError, AllowedOrigins: []string{"*"}},
		ts.jwt,
		NewAttendanceHandler(ts.attendance),
		NewLocationHandler(ts.location),
		NewConfirmationHandler(ts.confirmation, ts.hub),
	)
	return ts
}

func (ts *testServer) token(t *testing.T, workerID string, role auth.Role) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(workerID, role)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp response.Response
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/attendance/check-in", "", `{"code":"ABC123"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RoleSeparation(t *testing.T) {
	ts := newTestServer(t)
	worker := ts.token(t, testWorkerID, auth.RoleWorker)
	admin := ts.token(t, "", auth.RoleAdmin)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/admin/events/"+testEventID+"/workers", worker, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, response.CodeForbidden, resp.Error.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/attendance/check-in", admin, `{"code":"ABC123"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_CheckInUsesTokenIdentity(t *testing.T) {
	ts := newTestServer(t)
	worker := ts.token(t, testWorkerID, auth.RoleWorker)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance/check-in", worker, `{"code":"abc123"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, testWorkerID, ts.attendance.checkIn.WorkerID)
	assert.Equal(t, "abc123", ts.attendance.checkIn.Code)

	// worker_id in the body is not accepted
	rec, _ = ts.do(t, http.MethodPost, "/api/v1/attendance/check-in", worker, `{"code":"ABC123","worker_id":"someone-else"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_DomainErrorsKeepTheirCode(t *testing.T) {
	ts := newTestServer(t)
	ts.attendance.err = attendance.ErrNotCheckedIn
	worker := ts.token(t, testWorkerID, auth.RoleWorker)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance/"+testAttendanceID+"/check-out", worker, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, response.CodeNotCheckedIn, resp.Error.Code)
	assert.Equal(t, testAttendanceID, ts.attendance.checkOut.AttendanceID)
}

func TestRouter_GetMyOpenNotFound(t *testing.T) {
	ts := newTestServer(t)
	worker := ts.token(t, testWorkerID, auth.RoleWorker)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/attendance/me/open", worker, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, response.CodeAttendanceNotFound, resp.Error.Code)
}

func TestRouter_LocationReport(t *testing.T) {
	ts := newTestServer(t)
	worker := ts.token(t, testWorkerID, auth.RoleWorker)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/attendance/location", worker,
		`{"event_id":"`+testEventID+`","latitude":37.5666,"longitude":126.9781}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, testWorkerID, ts.location.req.WorkerID)
	assert.Equal(t, 37.5666, ts.location.req.Latitude)
}

func TestRouter_AdminCommands(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "", auth.RoleAdmin)

	rec, _ := ts.do(t, http.MethodPost, "/api/v1/admin/applications/"+testAppID+"/check-in", admin,
		`{"manual":false,"latitude":37.5666,"longitude":126.9781}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testAppID, ts.attendance.adminCheckIn.ApplicationID)
	require.NotNil(t, ts.attendance.adminCheckIn.Latitude)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/admin/applications/"+testAppID+"/check-in", admin,
		`{"manual":true,"latitude":37.5666,"longitude":126.9781}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, response.CodeValidation, resp.Error.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/admin/attendances/"+testAttendanceID+"/check-out", admin, `{"manual":true}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.attendance.adminCheckOut.Manual)
}

func TestRouter_ListWorkersQuery(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "", auth.RoleAdmin)

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/admin/events/"+testEventID+"/workers?within_range=true&lang=ko", admin, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ts.confirmation.req.WithinRangeOnly)
	assert.Equal(t, confirmation.LanguageKorean, ts.confirmation.req.Language)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/admin/events/"+testEventID+"/workers?within_range=maybe", admin, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "gigshift_open_attendances")
}

func TestRouter_AdminStream(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.token(t, "", auth.RoleAdmin)

	srv := httptest.NewServer(ts.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/admin/events/"+testEventID+"/stream?jwt="+admin, nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: connected\n", line)

	require.Eventually(t, func() bool { return ts.hub.SubscriberCount(testEventID) == 1 }, time.Second, 10*time.Millisecond)
	ts.hub.Publish(sse.Event{Topic: testEventID, Name: attendance.ChangeCheckedIn, Data: map[string]string{"worker_id": testWorkerID}})

	var got []string
	for len(got) < 2 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "event: "+attendance.ChangeCheckedIn) || (len(got) == 1 && strings.HasPrefix(line, "data: ")) {
			got = append(got, strings.TrimSpace(line))
		}
	}
	assert.Equal(t, "event: attendance.checked_in", got[0])
	assert.Contains(t, got[1], testWorkerID)
}
