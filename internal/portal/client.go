package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Iron-Ham/bunkplan/internal/errors"
	"github.com/Iron-Ham/bunkplan/internal/logging"
)

const (
	// DefaultBaseURL is the portal origin used when none is configured.
	DefaultBaseURL = "https://kiet.cybervidya.net"

	// DefaultAuthScheme prefixes the token in the Authorization header.
	DefaultAuthScheme = "GlobalEducation"

	defaultTimeout = 15 * time.Second

	// maxErrorBody caps how much of a failed response is kept for the error message.
	maxErrorBody = 512
)

// Endpoint paths, relative to the base URL.
const (
	PathLogin       = "/api/auth/login"
	PathAttendance  = "/api/attendance/course/component/student"
	PathSummary     = "/api/student/dashboard/attendance"
	PathPerformance = "/api/student/dashboard/performance"
	PathUpcoming    = "/api/student/dashboard/upcoming/classes"
	PathDaywise     = "/api/attendance/schedule/student/course/attendance/percentage"
)

// Client talks to the attendance portal. The session token is fixed at
// construction; use Login to obtain one and NewClient again to use it.
// A Client is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	scheme     string
	httpClient *http.Client
	logger     *logging.Logger
	validate   *validator.Validate
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithAuthScheme overrides the Authorization scheme.
func WithAuthScheme(scheme string) ClientOption {
	return func(c *Client) {
		c.scheme = scheme
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *logging.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger.WithComponent("portal")
	}
}

// NewClient creates a client for baseURL authenticating with token.
// An empty token is allowed; only Login works without one.
func NewClient(baseURL, token string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.NewValidationError("portal base URL must be an absolute http or https URL").
			WithField("base_url").
			WithValue(baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		scheme:  DefaultAuthScheme,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:   logging.NopLogger(),
		validate: validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// HasToken reports whether the client can call authenticated endpoints.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	if err := c.check(creds); err != nil {
		return "", err
	}

	var data loginData
	if err := c.do(ctx, http.MethodPost, PathLogin, creds, false, &data); err != nil {
		return "", err
	}
	if strings.TrimSpace(data.Token) == "" {
		return "", errors.NewPortalError("login returned no token", errors.ErrMalformedResponse).
			WithEndpoint(PathLogin)
	}
	return data.Token, nil
}

// Attendance fetches the per-course component counts.
func (c *Client) Attendance(ctx context.Context) (*StudentAttendance, error) {
	var data *StudentAttendance
	if err := c.do(ctx, http.MethodGet, PathAttendance, nil, true, &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, errors.NewPortalError("attendance response has no data", errors.ErrMalformedResponse).
			WithEndpoint(PathAttendance)
	}
	return data, nil
}

// Summary fetches the overall attendance percentage.
func (c *Client) Summary(ctx context.Context) (float64, error) {
	var data AttendanceSummary
	if err := c.do(ctx, http.MethodGet, PathSummary, nil, true, &data); err != nil {
		return 0, err
	}
	return float64(data.PresentPerc), nil
}

// Performance fetches the CGPA as displayed by the portal, without its
// "CGPA" label. An empty string means the portal has no figure yet.
func (c *Client) Performance(ctx context.Context) (string, error) {
	var data *string
	if err := c.do(ctx, http.MethodGet, PathPerformance, nil, true, &data); err != nil {
		return "", err
	}
	if data == nil {
		return "", nil
	}
	return strings.TrimSpace(strings.Replace(*data, "CGPA", "", 1)), nil
}

// UpcomingClasses fetches the dashboard timetable.
func (c *Client) UpcomingClasses(ctx context.Context) ([]UpcomingClass, error) {
	var data []UpcomingClass
	if err := c.do(ctx, http.MethodGet, PathUpcoming, nil, true, &data); err != nil {
		return nil, err
	}
	return data, nil
}

// Daywise fetches the lecture log of one course component, newest first.
// Lectures whose date cannot be parsed keep their order after the rest.
func (c *Client) Daywise(ctx context.Context, req DaywiseRequest) ([]Lecture, error) {
	if err := c.check(req); err != nil {
		return nil, err
	}

	var data []daywiseEntry
	if err := c.do(ctx, http.MethodPost, PathDaywise, req, true, &data); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	lectures := slices.Clone(data[0].LectureList)
	slices.SortStableFunc(lectures, func(a, b Lecture) int {
		ta, okA := a.Date()
		tb, okB := b.Date()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
	return lectures, nil
}

func (c *Client) check(v any) error {
	if err := c.validate.Struct(v); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
		}
		return errors.NewValidationError("invalid request: " + strings.Join(fields, ", ")).WithCause(err)
	}
	return nil
}

// do sends one request and decodes the envelope's data field into out.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool, out any) error {
	if authed && c.token == "" {
		return errors.NewPortalError("cannot call "+path, errors.ErrMissingToken).WithEndpoint(path)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", c.scheme+" "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("portal request failed", "method", method, "path", path, "error", err)
		return c.transportError(ctx, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewPortalError("read response", err).WithEndpoint(path).WithStatusCode(resp.StatusCode)
	}

	c.logger.Debug("portal request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return errors.NewPortalError(msg, nil).WithEndpoint(path).WithStatusCode(resp.StatusCode)
	}

	env := envelope[json.RawMessage]{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.NewPortalError("decode response", errors.Join(errors.ErrMalformedResponse, err)).
			WithEndpoint(path).
			WithStatusCode(resp.StatusCode).
			WithUserFacing(false)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return errors.NewPortalError("decode data", errors.Join(errors.ErrMalformedResponse, err)).
			WithEndpoint(path).
			WithStatusCode(resp.StatusCode).
			WithUserFacing(false)
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, path string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return errors.NewPortalError("request canceled", errors.Join(errors.ErrCanceled, err)).WithEndpoint(path)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return errors.NewTimeoutError("portal request "+path, c.httpClient.Timeout).WithCause(err)
	}
	return errors.NewPortalError("send request", err).WithEndpoint(path).WithRetryable(true)
}
