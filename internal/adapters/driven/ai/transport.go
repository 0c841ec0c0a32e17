package ai

import (
	"math"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitedTransport delays outbound requests to stay under a request rate.
type RateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// NewRateLimitedTransport wraps base with a limiter of perSecond requests.
// A non-positive rate returns nil, which http.Client treats as the default
// transport.
func NewRateLimitedTransport(base http.RoundTripper, perSecond float64) http.RoundTripper {
	if perSecond <= 0 {
		return base
	}
	burst := max(1, int(math.Ceil(perSecond)))
	return &RateLimitedTransport{
		base:    httpTransport(base),
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// RoundTrip waits for a token, honouring request cancellation.
func (t *RateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
