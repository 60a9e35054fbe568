package clients

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vitwit/splitpay/logger"
	"github.com/vitwit/splitpay/types"
	"github.com/vitwit/splitpay/utils"
)

const (
	distributionPath = "/common/distribution_info/"

	// maxDistributionBody bounds the body read from the distribution service.
	maxDistributionBody = 1 << 20

	// maxErrorBody bounds how much of a rejected response ends up in the
	// returned error.
	maxErrorBody = 256
)

// DistributionClient resolves project fee configuration from the
// distribution service. Lookups are never retried or cached.
type DistributionClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

var _ DistributionResolver = (*DistributionClient)(nil)

// NewDistributionClient creates a client for the service rooted at baseURL.
func NewDistributionClient(baseURL string, timeout time.Duration, log logger.Logger) (*DistributionClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, types.Errorf(types.ErrConfigError, "invalid distribution url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = types.DefaultHTTPTimeout
	}
	if log == nil {
		log = logger.NoopLogger{}
	}

	return &DistributionClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}, nil
}

// GetDistribution fetches and validates the distribution of projectID.
func (c *DistributionClient) GetDistribution(ctx context.Context, projectID string) (*types.DistributionConfig, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, types.Errorf(types.ErrDistributionLookup, "project id is required")
	}

	endpoint := c.baseURL + distributionPath + url.PathEscape(projectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "failed to build distribution request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("distribution lookup failed", map[string]any{
			"project": projectID,
			"error":   err.Error(),
		})
		return nil, types.NewError(types.ErrDistributionLookup, "failed to fetch distribution info", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDistributionBody))
	if err != nil {
		return nil, types.NewError(types.ErrDistributionLookup, "failed to read distribution info", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := truncateBody(body, maxErrorBody)
		c.logger.Warn("distribution lookup rejected", map[string]any{
			"project": projectID,
			"status":  resp.StatusCode,
			"body":    detail,
		})
		if detail == "" {
			return nil, types.Errorf(types.ErrDistributionLookup, "distribution service returned %d", resp.StatusCode)
		}
		return nil, types.Errorf(types.ErrDistributionLookup, "distribution service returned %d: %s", resp.StatusCode, detail)
	}

	cfg, err := utils.ParseDistributionInfo(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("distribution resolved", map[string]any{
		"project":     projectID,
		"taxBps":      cfg.TaxPercentageBps,
		"returnBps":   cfg.ReturnShareBps,
		"hasRewards":  cfg.HasRewards(),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return cfg, nil
}

func truncateBody(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}
	return strings.ToValidUTF8(s[:limit], "") + "..."
}

func (c *DistributionClient) String() string {
	return fmt.Sprintf("DistributionClient(%s)", c.baseURL)
}
