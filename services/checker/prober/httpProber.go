package prober

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const maxMarkerLogLength = 64

var log = logger.GetOrCreate("prober")

// ArgsHTTPProber defines the arguments needed to create a new HTTP prober
type ArgsHTTPProber struct {
	URL            string
	ExpectedMarker string
	JSONPath       string
	Timeout        time.Duration
}

type httpProber struct {
	url            string
	expectedMarker string
	jsonPath       string
	client         *http.Client
}

// NewHTTPProber creates a prober that issues one GET per call and expects the liveness marker in the response
func NewHTTPProber(args ArgsHTTPProber) (*httpProber, error) {
	if len(args.URL) == 0 {
		return nil, errEmptyURL
	}
	if len(args.ExpectedMarker) == 0 {
		return nil, errEmptyMarker
	}

	return &httpProber{
		url:            args.URL,
		expectedMarker: args.ExpectedMarker,
		jsonPath:       args.JSONPath,
		client: &http.Client{
			Timeout: args.Timeout,
		},
	}, nil
}

// Probe triggers one unit of work on the system under test. It returns nil only if the response carries the
// expected marker: the whole body or, when a JSON path is configured, the value found at that path.
func (p *httpProber) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errStatusNotOK(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	marker := strings.TrimSpace(string(body))
	if len(p.jsonPath) > 0 {
		result := gjson.GetBytes(body, p.jsonPath)
		if !result.Exists() {
			return errPathNotFound(p.jsonPath)
		}
		marker = result.String()
	}

	if marker != p.expectedMarker {
		return errUnexpectedMarker(truncate(marker))
	}

	log.Trace("probe succeeded", "url", p.url)

	return nil
}

// String returns the probed endpoint
func (p *httpProber) String() string {
	return fmt.Sprintf("GET %s", p.url)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (p *httpProber) IsInterfaceNil() bool {
	return p == nil
}

func truncate(marker string) string {
	if len(marker) <= maxMarkerLogLength {
		return marker
	}

	return marker[:maxMarkerLogLength] + "..."
}
