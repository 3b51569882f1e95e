package backoff

import (
	"math/rand"
	"time"
)

// JitterType selects how NewJitterFunc and WithJitter perturb a computed
// interval.
type JitterType int

const (
	// NoJitter returns the interval unchanged.
	NoJitter JitterType = iota
	// FullJitter returns a random duration in [0, interval].
	FullJitter
	// Jitter returns a random duration in [interval/2, interval+interval/2].
	Jitter
)

// NewJitterFunc returns a function that applies jt to a computed interval.
// The returned function is safe for concurrent use: it calls into
// math/rand's package-level source, which is itself mutex-guarded.
func NewJitterFunc(jt JitterType) func(time.Duration) time.Duration {
	switch jt {
	case FullJitter:
		return func(interval time.Duration) time.Duration {
			if interval <= 0 {
				return 0
			}
			return time.Duration(rand.Int63n(int64(interval) + 1))
		}
	case Jitter:
		return func(interval time.Duration) time.Duration {
			if interval <= 0 {
				return 0
			}
			half := int64(interval) / 2
			return time.Duration(half + rand.Int63n(int64(interval)+1))
		}
	default:
		return func(interval time.Duration) time.Duration {
			if interval <= 0 {
				return 0
			}
			return interval
		}
	}
}

// WithJitter wraps policy so every computed interval is passed through
// NewJitterFunc(jt) before it's returned. Errors from the wrapped policy
// (notably ErrRetriesExhausted) are propagated unchanged.
func WithJitter(policy RetryPolicy, jt JitterType) RetryPolicy {
	return &jitterPolicy{policy: policy, jitter: NewJitterFunc(jt)}
}

type jitterPolicy struct {
	policy RetryPolicy
	jitter func(time.Duration) time.Duration
}

func (p *jitterPolicy) ComputeNextInterval(retryCount int, elapsedTime time.Duration, err error) (time.Duration, error) {
	interval, computeErr := p.policy.ComputeNextInterval(retryCount, elapsedTime, err)
	if computeErr != nil {
		return 0, computeErr
	}
	return p.jitter(interval), nil
}
