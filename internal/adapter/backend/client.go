package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	domainErrors "github.com/openmenu/riderapp/internal/domain/errors"
	"github.com/openmenu/riderapp/internal/domain/model"
)

const requestTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to authenticated calls.
type TokenSource interface {
	Token() (string, bool)
}

// APIError carries a backend rejection with the server-provided message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend error: %s", http.StatusText(e.StatusCode))
}

// Is maps well-known status codes onto domain sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case domainErrors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case domainErrors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case domainErrors.ErrInvalidCredentials:
		return e.StatusCode == http.StatusUnprocessableEntity || e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// ProfileUpdate carries the editable rider profile fields.
type ProfileUpdate struct {
	Name                      string            `json:"name,omitempty"`
	Address                   string            `json:"address,omitempty"`
	VehicleType               model.VehicleType `json:"vehicle_type,omitempty"`
	VehicleRegistrationNumber string            `json:"vehicle_registration_number,omitempty"`
}

// Client exposes the rider REST API.
type Client interface {
	Login(ctx context.Context, phone, password string) (*model.Rider, string, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*model.Rider, error)
	UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.Rider, error)
	Orders(ctx context.Context) ([]model.Order, error)
	OrderDetails(ctx context.Context, orderID int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, reason, passcode string) error
	ConfirmDelivery(ctx context.Context, orderID int64, passcode string) error
	Notifications(ctx context.Context) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID int64) error
	UpdateLocation(ctx context.Context, location model.Location) error
	Earnings(ctx context.Context, period, date string) (*model.Earnings, error)
	Performance(ctx context.Context) (*model.Performance, error)
}

// HTTPClient implements Client against the platform backend.
type HTTPClient struct {
	baseURL        *url.URL
	httpClient     *http.Client
	tokens         TokenSource
	onUnauthorized func()
	deviceName     string
	logger         *slog.Logger
}

// NewHTTPClient creates a rider API client with the platform's 10 second
// request timeout. onUnauthorized is invoked for every 401 response on an
// authenticated call; it is how the app forces a logout on expired tokens.
func NewHTTPClient(baseURL, deviceName string, tokens TokenSource, onUnauthorized func(), logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("backend url must be absolute")
	}
	if onUnauthorized == nil {
		onUnauthorized = func() {}
	}
	return &HTTPClient{
		baseURL:        parsed,
		tokens:         tokens,
		onUnauthorized: onUnauthorized,
		deviceName:     deviceName,
		logger:         logger,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}, nil
}

type loginRequest struct {
	Phone      string `json:"phone"`
	Password   string `json:"password"`
	DeviceName string `json:"device_name"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	Rider   *model.Rider `json:"rider"`
	Message string       `json:"message"`
}

// Login authenticates the rider and returns the profile plus bearer token.
func (c *HTTPClient) Login(ctx context.Context, phone, password string) (*model.Rider, string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/rider/login", loginRequest{
		Phone:      phone,
		Password:   password,
		DeviceName: c.deviceName,
	}, &out, false)
	if err != nil {
		return nil, "", err
	}
	if !out.Success || out.Token == "" || out.Rider == nil {
		message := out.Message
		if message == "" {
			message = "Login failed"
		}
		return nil, "", &APIError{StatusCode: http.StatusUnauthorized, Message: message}
	}
	return out.Rider, out.Token, nil
}

// Logout invalidates the bearer token server-side.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/rider/logout", nil, nil, true)
}

// Profile fetches the authenticated rider's profile.
func (c *HTTPClient) Profile(ctx context.Context) (*model.Rider, error) {
	var out struct {
		Data *model.Rider `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/rider/me", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// UpdateProfile persists editable profile fields and returns the new profile.
func (c *HTTPClient) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.Rider, error) {
	var out struct {
		Data *model.Rider `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, "/rider/profile", update, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Orders fetches the full set of orders assigned to the rider.
func (c *HTTPClient) Orders(ctx context.Context) ([]model.Order, error) {
	var out struct {
		Data []model.Order `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/rider/orders", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// OrderDetails fetches one order by id. A missing order surfaces as
// domain ErrNotFound via the returned APIError.
func (c *HTTPClient) OrderDetails(ctx context.Context, orderID int64) (*model.Order, error) {
	var out struct {
		Data *model.Order `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, orderPath(orderID, ""), nil, &out, true); err != nil {
		return nil, err
	}
	if out.Data == nil {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "order not found"}
	}
	return out.Data, nil
}

type statusUpdateRequest struct {
	Status           string `json:"status"`
	Reason           string `json:"reason,omitempty"`
	DeliveryPasscode string `json:"delivery_passcode,omitempty"`
}

// UpdateOrderStatus requests a status transition. The backend is the
// authority; a rejection (wrong passcode, illegal transition) comes back as
// an APIError carrying the server message.
func (c *HTTPClient) UpdateOrderStatus(ctx context.Context, orderID int64, status model.OrderStatus, reason, passcode string) error {
	return c.do(ctx, http.MethodPut, orderPath(orderID, "status"), statusUpdateRequest{
		Status:           status.String(),
		Reason:           reason,
		DeliveryPasscode: passcode,
	}, nil, true)
}

// ConfirmDelivery is the legacy delivery-confirmation path kept for backends
// that have not migrated to the status endpoint.
func (c *HTTPClient) ConfirmDelivery(ctx context.Context, orderID int64, passcode string) error {
	payload := struct {
		DeliveryPasscode string `json:"delivery_passcode"`
	}{DeliveryPasscode: passcode}
	return c.do(ctx, http.MethodPost, orderPath(orderID, "delivery-confirmation"), payload, nil, true)
}

// Notifications fetches all notifications addressed to the rider.
func (c *HTTPClient) Notifications(ctx context.Context) ([]model.Notification, error) {
	var out struct {
		Data []model.Notification `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/rider/notifications", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// MarkNotificationRead marks one notification as read.
func (c *HTTPClient) MarkNotificationRead(ctx context.Context, notificationID int64) error {
	p := path.Join("/rider/notifications", strconv.FormatInt(notificationID, 10), "read")
	return c.do(ctx, http.MethodPut, p, nil, nil, true)
}

// UpdateLocation reports the rider's current position.
func (c *HTTPClient) UpdateLocation(ctx context.Context, location model.Location) error {
	return c.do(ctx, http.MethodPost, "/rider/location", location, nil, true)
}

// Earnings fetches the earnings summary for a period ("daily", "weekly",
// "monthly"); date narrows the report, both may be empty.
func (c *HTTPClient) Earnings(ctx context.Context, period, date string) (*model.Earnings, error) {
	query := url.Values{}
	if period != "" {
		query.Set("period", period)
	}
	if date != "" {
		query.Set("date", date)
	}
	p := "/rider/earnings"
	if encoded := query.Encode(); encoded != "" {
		p += "?" + encoded
	}

	var out struct {
		Data *model.Earnings `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, p, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Performance fetches the rider's all-time delivery statistics.
func (c *HTTPClient) Performance(ctx context.Context) (*model.Performance, error) {
	var out struct {
		Data *model.Performance `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/rider/performance", nil, &out, true); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func orderPath(orderID int64, suffix string) string {
	p := path.Join("/rider/orders", strconv.FormatInt(orderID, 10))
	if suffix != "" {
		p = path.Join(p, suffix)
	}
	return p
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body, out any, authed bool) error {
	target := *c.baseURL
	rawPath := endpoint
	if i := strings.Index(endpoint, "?"); i >= 0 {
		rawPath, target.RawQuery = endpoint[:i], endpoint[i+1:]
	}
	target.Path = path.Join(target.Path, rawPath)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
		if resp.StatusCode == http.StatusUnauthorized && authed {
			c.logger.Warn("backend rejected token, forcing logout", slog.String("endpoint", endpoint))
			c.onUnauthorized()
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func readMessage(body io.Reader) string {
	payload, err := io.ReadAll(body)
	if err != nil {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}
