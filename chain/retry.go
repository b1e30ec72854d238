package chain

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

// Retrying wraps a Client with jittered retries for throttling errors.
// The resolver itself never retries; callers opt in by wrapping their client.
type Retrying struct {
	inner    Client
	attempts int
	base     time.Duration
	jitter   time.Duration
}

func NewRetrying(inner Client, attempts int) *Retrying {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrying{
		inner:    inner,
		attempts: attempts,
		base:     250 * time.Millisecond,
		jitter:   150 * time.Millisecond,
	}
}

func (r *Retrying) GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error) {
	var out *Account
	err := r.do(ctx, func() (err error) {
		out, err = r.inner.GetAccount(ctx, address)
		return err
	})
	return out, err
}

func (r *Retrying) GetSignatures(ctx context.Context, address solana.PublicKey, limit int) ([]Signature, error) {
	var out []Signature
	err := r.do(ctx, func() (err error) {
		out, err = r.inner.GetSignatures(ctx, address, limit)
		return err
	})
	return out, err
}

func (r *Retrying) GetTransactionAccountKeys(ctx context.Context, sig solana.Signature) (solana.PublicKeySlice, error) {
	var out solana.PublicKeySlice
	err := r.do(ctx, func() (err error) {
		out, err = r.inner.GetTransactionAccountKeys(ctx, sig)
		return err
	})
	return out, err
}

func (r *Retrying) do(ctx context.Context, call func() error) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = call()
		if err == nil {
			return nil
		}
		// Only retry for throttling/busyness; bubble up all other errors.
		if !(isRateLimited(err) || isServerBusy(err)) || attempt == r.attempts {
			return err
		}
		wait := r.base * time.Duration(attempt)
		if r.jitter > 0 {
			wait += time.Duration(rand.Int63n(int64(r.jitter)))
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", types.ErrCancelled, ctx.Err())
		case <-time.After(wait):
		}
	}
	return err
}

func isRateLimited(err error) bool {
	return containsAny(err, "rate limit", "rate-limited", "429", "too many requests")
}

func isServerBusy(err error) bool {
	return containsAny(err, "server busy", "try again later", "overloaded", "503")
}

func containsAny(err error, subs ...string) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}
