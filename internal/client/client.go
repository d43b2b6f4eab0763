package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/confirmation"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/domain/location"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/geo"
)

// Client is a typed client for the /api/v1 attendance endpoints.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope mirrors response.Response with a typed data field.
type envelope[T any] struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Data    T                     `json:"data"`
	Error   *response.ErrorDetail `json:"error"`
}

func do[T any](ctx context.Context, c *Client, op, method, path string, body interface{}) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 300 {
			return zero, &APIError{Status: resp.StatusCode, Code: response.CodeInternal, Message: http.StatusText(resp.StatusCode)}
		}
		return zero, &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Code: response.CodeInternal, Message: http.StatusText(resp.StatusCode)}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
			apiErr.Details = env.Error.Details
		}
		return zero, apiErr
	}

	return env.Data, nil
}

// ReportLocation sends the worker's current position for an event.
func (c *Client) ReportLocation(ctx context.Context, eventID string, pos geo.Coordinate) (location.ReportResponse, error) {
	body := location.ReportRequest{EventID: eventID, Latitude: pos.Latitude, Longitude: pos.Longitude}
	return do[location.ReportResponse](ctx, c, "report location", http.MethodPost, "/api/v1/attendance/location", body)
}

// CheckIn submits a check-in code exactly as given.
func (c *Client) CheckIn(ctx context.Context, code string) (attendance.CheckInResponse, error) {
	body := attendance.CheckInRequest{Code: code}
	return do[attendance.CheckInResponse](ctx, c, "check in", http.MethodPost, "/api/v1/attendance/check-in", body)
}

func (c *Client) CheckOut(ctx context.Context, attendanceID string) (attendance.CheckOutResponse, error) {
	path := "/api/v1/attendance/" + url.PathEscape(attendanceID) + "/check-out"
	return do[attendance.CheckOutResponse](ctx, c, "check out", http.MethodPost, path, nil)
}

// GetOpen returns the caller's open record. attendance.ErrAttendanceNotFound means none.
func (c *Client) GetOpen(ctx context.Context) (attendance.AttendanceResponse, error) {
	return do[attendance.AttendanceResponse](ctx, c, "get open attendance", http.MethodGet, "/api/v1/attendance/me/open", nil)
}

func (c *Client) AdminCheckIn(ctx context.Context, applicationID string, cmd attendance.AdminCommand) (attendance.AdminActionResponse, error) {
	path := "/api/v1/admin/applications/" + url.PathEscape(applicationID) + "/check-in"
	return do[attendance.AdminActionResponse](ctx, c, "admin check in", http.MethodPost, path, cmd)
}

func (c *Client) AdminCheckOut(ctx context.Context, attendanceID string, cmd attendance.AdminCommand) (attendance.AdminActionResponse, error) {
	path := "/api/v1/admin/attendances/" + url.PathEscape(attendanceID) + "/check-out"
	return do[attendance.AdminActionResponse](ctx, c, "admin check out", http.MethodPost, path, cmd)
}

func (c *Client) ListWorkers(ctx context.Context, eventID string, withinRangeOnly bool, lang confirmation.Language) (confirmation.ListWorkersResponse, error) {
	q := url.Values{}
	if withinRangeOnly {
		q.Set("within_range", strconv.FormatBool(true))
	}
	if lang != "" {
		q.Set("lang", string(lang))
	}

	path := "/api/v1/admin/events/" + url.PathEscape(eventID) + "/workers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return do[confirmation.ListWorkersResponse](ctx, c, "list workers", http.MethodGet, path, nil)
}
