package facilityapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

const (
	filterPath     = "/filter"
	requestIDKey   = "X-Request-ID"
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 16 << 20
)

// Client queries the facility filter endpoint over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ providers.FacilitySource = (*Client)(nil)

// NewClient creates a facility API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient allows overriding the HTTP client (used for tests)
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: httpClient,
	}
}

// Search issues GET <base>/filter?<params>
func (c *Client) Search(ctx context.Context, params url.Values) (*entities.SearchResponse, error) {
	ctx, span := observability.StartSpan(ctx, "facilityapi.Search")
	defer span.End()

	reqURL := c.baseURL + filterPath
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}
	requestID := uuid.NewString()
	observability.SetSpanAttributes(span,
		attribute.String("http.method", http.MethodGet),
		attribute.String("http.url", reqURL),
		attribute.String("request.id", requestID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, c.fail(span, apperrors.NewNetworkError("failed to build facility request", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDKey, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	logger := observability.LoggerFromContext(ctx)
	logger.Debug().Str("url", reqURL).Str("request_id", requestID).Msg("querying facility api")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(span, apperrors.NewNetworkError("facility request failed", err))
	}
	defer resp.Body.Close()

	observability.SetSpanAttributes(span, attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, c.fail(span, apperrors.NewHTTPError(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(span, apperrors.NewNetworkError("failed to read facility response", err))
	}

	out, err := DecodeSearchResponse(body)
	if err != nil {
		return nil, c.fail(span, err)
	}
	observability.SetSpanAttributes(span, attribute.Int("facility.count", len(out.Facilities)))
	logger.Debug().
		Str("request_id", requestID).
		Int("facilities", len(out.Facilities)).
		Msg("facility api responded")
	return out, nil
}

func (c *Client) fail(span trace.Span, err error) error {
	observability.RecordError(span, err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// String identifies the endpoint in logs
func (c *Client) String() string {
	return fmt.Sprintf("facilityapi(%s)", c.baseURL)
}
