// Package backend is the HTTP client for the prediction service. Every call maps one endpoint,
// checks the response against the endpoint's JSON contract and returns a typed result or a
// *Error.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	pathDetectCancer  = "/detect-cancer"
	pathPredictImage  = "/predict"
	pathCancerTypes   = "/cancer-types"
	pathPatients      = "/patients"
	pathClusterStats  = "/cluster-stats"
	pathClusterCounts = "/cluster-counts"
	pathTopRisk       = "/top-risk"
	pathAggressivity  = "/predictAgressivity"
	pathHADS          = "/predict_hads"
	pathMenopause     = "/predict-menopause-risk"
	pathRecurrence    = "/predict-recurrence"
	pathRisk          = "/predictRisk"
	pathHealth        = "/health"

	maxResponseBytes = 32 << 20
)

// Client talks to the prediction backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// DetectCancer posts the 30 standardized features to /detect-cancer.
func (c *Client) DetectCancer(ctx context.Context, req DetectionRequest) (*DetectionPrediction, error) {
	var resp detectionResponse
	if err := c.postJSON(ctx, pathDetectCancer, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Predictions[0], nil
}

// PredictImage uploads an image to /predict as multipart form data.
func (c *Client) PredictImage(ctx context.Context, up ImageUpload) (*ImageResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, up.Filename))
	ct := up.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, &Error{Kind: Transport, Endpoint: pathPredictImage, Err: err}
	}
	if _, err := io.Copy(part, up.Body); err != nil {
		return nil, &Error{Kind: Transport, Endpoint: pathPredictImage, Err: fmt.Errorf("read upload: %w", err)}
	}
	if err := mw.Close(); err != nil {
		return nil, &Error{Kind: Transport, Endpoint: pathPredictImage, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pathPredictImage, &body)
	if err != nil {
		return nil, &Error{Kind: Transport, Endpoint: pathPredictImage, Err: err}
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	status, raw, err := c.roundTrip(httpReq, pathPredictImage)
	if err != nil {
		return nil, err
	}
	// The image service explains rejected uploads in an "error" member.
	if status >= 400 {
		if msg := errorField(raw); msg != "" {
			return nil, &Error{Kind: Domain, Endpoint: pathPredictImage, StatusCode: status, Message: msg}
		}
	}
	var res ImageResult
	if err := c.decode(pathPredictImage, status, raw, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CancerTypes lists the cancer types the clustering model knows.
func (c *Client) CancerTypes(ctx context.Context) ([]string, error) {
	var out []string
	err := c.getJSON(ctx, pathCancerTypes, nil, &out)
	return out, err
}

// Patients returns every clustered patient.
func (c *Client) Patients(ctx context.Context) ([]PatientRecord, error) {
	var out []PatientRecord
	err := c.getJSON(ctx, pathPatients, nil, &out)
	return out, err
}

// ClusterStats returns per-level averages.
func (c *Client) ClusterStats(ctx context.Context) ([]ClusterStat, error) {
	var out []ClusterStat
	err := c.getJSON(ctx, pathClusterStats, nil, &out)
	return out, err
}

// ClusterCounts returns patient counts per cancer type and level.
func (c *Client) ClusterCounts(ctx context.Context) ([]ClusterCount, error) {
	var out []ClusterCount
	err := c.getJSON(ctx, pathClusterCounts, nil, &out)
	return out, err
}

// TopRisk returns the n highest-NPI patients of the strongest aggressivity level.
func (c *Client) TopRisk(ctx context.Context, n int) ([]PatientRecord, error) {
	var out []PatientRecord
	q := url.Values{"n": {strconv.Itoa(n)}}
	err := c.getJSON(ctx, pathTopRisk, q, &out)
	return out, err
}

// PredictAggressivity classifies a tumor. A backend {"error": ...} body is returned as a
// Domain *Error carrying the backend message, whatever the HTTP status.
func (c *Client) PredictAggressivity(ctx context.Context, req AggressivityRequest) (*AggressivityResult, error) {
	httpReq, err := c.newJSONRequest(ctx, pathAggressivity, req)
	if err != nil {
		return nil, err
	}
	status, body, err := c.roundTrip(httpReq, pathAggressivity)
	if err != nil {
		return nil, err
	}

	var outcome AggressivityOutcome
	if jsonErr := json.Unmarshal(body, &outcome); jsonErr == nil && outcome.Err != "" {
		return nil, &Error{Kind: Domain, Endpoint: pathAggressivity, StatusCode: status, Message: outcome.Err}
	}
	if err := c.decode(pathAggressivity, status, body, &outcome); err != nil {
		return nil, err
	}
	if outcome.Result == nil {
		return nil, &Error{Kind: Malformed, Endpoint: pathAggressivity, StatusCode: status, Message: "missing result"}
	}
	return outcome.Result, nil
}

// PredictHADS scores the HADS/INFO-25 questionnaire.
func (c *Client) PredictHADS(ctx context.Context, req HADSRequest) (*HADSResult, error) {
	var res HADSResult
	if err := c.postJSON(ctx, pathHADS, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PredictMenopause returns the menopause risk class and per-class probabilities.
func (c *Client) PredictMenopause(ctx context.Context, req MenopauseRequest) (*MenopausePrediction, error) {
	var resp menopauseResponse
	if err := c.postJSON(ctx, pathMenopause, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Predictions[0], nil
}

// PredictRecurrence returns the 5-year recurrence prediction.
func (c *Client) PredictRecurrence(ctx context.Context, req RecurrenceRequest) (*RecurrencePrediction, error) {
	var resp recurrenceResponse
	if err := c.postJSON(ctx, pathRecurrence, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Predictions[0], nil
}

// PredictRisk returns the hereditary risk score and its top contributing features.
func (c *Client) PredictRisk(ctx context.Context, req RiskRequest) (*RiskPrediction, error) {
	var resp riskResponse
	if err := c.postJSON(ctx, pathRisk, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Predictions[0], nil
}

// Ping checks the backend /health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var out map[string]any
	return c.getJSON(ctx, pathHealth, nil, &out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload, out any) error {
	req, err := c.newJSONRequest(ctx, endpoint, payload)
	if err != nil {
		return err
	}
	return c.do(req, endpoint, out)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := c.baseURL + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Kind: Transport, Endpoint: endpoint, Err: err}
	}
	return c.do(req, endpoint, out)
}

func (c *Client) newJSONRequest(ctx context.Context, endpoint string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &Error{Kind: Transport, Endpoint: endpoint, Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: Transport, Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	status, body, err := c.roundTrip(req, endpoint)
	if err != nil {
		return err
	}
	return c.decode(endpoint, status, body, out)
}

func (c *Client) roundTrip(req *http.Request, endpoint string) (int, []byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed",
			zap.String("endpoint", endpoint),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return 0, nil, &Error{Kind: Transport, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, &Error{Kind: Transport, Endpoint: endpoint, StatusCode: resp.StatusCode, Err: err}
	}
	c.logger.Debug("backend request",
		zap.String("method", req.Method),
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
	return resp.StatusCode, body, nil
}

func (c *Client) decode(endpoint string, status int, body []byte, out any) error {
	if status < 200 || status > 299 {
		e := &Error{Kind: Status, Endpoint: endpoint, StatusCode: status, Message: errorField(body)}
		c.logger.Warn("backend returned an error status", zap.String("endpoint", endpoint), zap.Int("status", status))
		return e
	}
	if err := checkContract(endpoint, body); err != nil {
		c.logger.Warn("backend response rejected", zap.String("endpoint", endpoint), zap.Error(err))
		return &Error{Kind: Malformed, Endpoint: endpoint, StatusCode: status, Err: err}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Kind: Malformed, Endpoint: endpoint, StatusCode: status, Err: err}
	}
	return nil
}

// errorField extracts the "error" member of a JSON object body, if any.
func errorField(body []byte) string {
	var envelope struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &envelope) != nil {
		return ""
	}
	return envelope.Error
}
