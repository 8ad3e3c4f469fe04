package rates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"travel-companion-service/internal/domain"
	"travel-companion-service/internal/platform/obs"
	"travel-companion-service/internal/platform/webapi"
)

// ExchangeRateProvider implements the RateProvider port against an
// exchangerate.host-compatible conversion endpoint.
type ExchangeRateProvider struct {
	client  *webapi.Client
	baseURL string
}

func NewExchangeRateProvider(baseURL string) (*ExchangeRateProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("exchange rate base URL is empty")
	}

	return &ExchangeRateProvider{
		client:  webapi.NewClient(10 * time.Second),
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type convertResponse struct {
	Success bool    `json:"success"`
	Result  float64 `json:"result"`
}

func (p *ExchangeRateProvider) FetchRate(ctx context.Context, base, compare string) (_ float64, err error) {
	defer obs.Time(ctx, "rates.FetchRate")(&err)

	base = strings.TrimSpace(base)
	compare = strings.TrimSpace(compare)
	if base == "" || compare == "" {
		return 0, fmt.Errorf("fetch rate: empty currency pair: %w", domain.ErrValidation)
	}

	endpoint := p.baseURL + "/convert"

	makeReq := func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("from", base)
		q.Set("to", compare)
		req.URL.RawQuery = q.Encode()
		req.Header.Set("Accept", "application/json")
		return req, nil
	}

	resp, err := p.client.DoWithRetry(ctx, makeReq)
	if err != nil {
		return 0, fmt.Errorf("fetch rate %s/%s: %v: %w", base, compare, err, domain.ErrRateFetch)
	}
	defer resp.Body.Close()

	var decoded convertResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("fetch rate %s/%s: decode response: %v: %w", base, compare, err, domain.ErrRateFetch)
	}

	if decoded.Result <= 0 {
		return 0, fmt.Errorf("fetch rate %s/%s: non-positive rate %f: %w",
			base, compare, decoded.Result, domain.ErrRateFetch)
	}

	return decoded.Result, nil
}
