package job

import "time"

// ExponentialRetryPolicy bounds the number of processing attempts and doubles
// the delay before each re-attempt.
type ExponentialRetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
}

// NewExponentialRetryPolicy creates a policy with the given attempt ceiling
// (total attempts, including the first) and base delay.
func NewExponentialRetryPolicy(maxAttempts int, baseDelay time.Duration) *ExponentialRetryPolicy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 5 * time.Second
	}
	return &ExponentialRetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

// MaxAttempts returns the total attempt ceiling.
func (p *ExponentialRetryPolicy) MaxAttempts() int {
	return p.maxAttempts
}

// Delay returns the backoff delay applied after the given attempt number
// (starting at 1): base, 2*base, 4*base, ...
func (p *ExponentialRetryPolicy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.baseDelay << (attempt - 1)
}
