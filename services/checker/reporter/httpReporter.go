package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/iulianpascalau/dogstatsd-checker/services/checker/common"
	logger "github.com/multiversx/mx-chain-logger-go"
)

const apiKeyHeader = "X-Api-Key"

var log = logger.GetOrCreate("reporter")

type reportPayload struct {
	CheckerID string        `json:"checkerId"`
	Passed    bool          `json:"passed"`
	Report    common.Report `json:"report"`
}

type httpReporter struct {
	endpoint  string
	apiKey    string
	checkerID string
	client    *http.Client
}

// NewHTTPReporter creates a new reporter that publishes the final validation report to the configured endpoint
func NewHTTPReporter(endpoint, apiKey, checkerID string, timeout time.Duration) (*httpReporter, error) {
	if len(endpoint) == 0 {
		return nil, errEmptyEndpoint
	}

	return &httpReporter{
		endpoint:  endpoint,
		apiKey:    apiKey,
		checkerID: checkerID,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Publish sends the report as JSON. The API key header is set only if a key was provided.
func (r *httpReporter) Publish(ctx context.Context, report common.Report) error {
	body, err := json.Marshal(reportPayload{
		CheckerID: r.checkerID,
		Passed:    report.Passed(),
		Report:    report,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create report request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if len(r.apiKey) > 0 {
		req.Header.Set(apiKeyHeader, r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("network error sending report: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %d", errReportRejected, resp.StatusCode)
	}

	log.Debug("successfully published the validation report", "endpoint", r.endpoint, "passed", report.Passed())

	return nil
}

// IsInterfaceNil returns true if the value under the interface is nil
func (r *httpReporter) IsInterfaceNil() bool {
	return r == nil
}
