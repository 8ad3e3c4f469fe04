package rates

import "context"

// MockRateProvider returns a fixed rate for pipeline tests.
type MockRateProvider struct {
	Rate  float64
	Err   error
	Calls int
}

func (m *MockRateProvider) FetchRate(ctx context.Context, base, compare string) (float64, error) {
	m.Calls++
	if m.Err != nil {
		return 0, m.Err
	}
	return m.Rate, nil
}
