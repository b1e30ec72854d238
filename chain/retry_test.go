package chain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

type flakyClient struct {
	failures int
	err      error
	calls    int
}

func (f *flakyClient) GetAccount(ctx context.Context, address solana.PublicKey) (*Account, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return &Account{Owner: solana.TokenProgramID}, nil
}

func (f *flakyClient) GetSignatures(ctx context.Context, address solana.PublicKey, limit int) ([]Signature, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []Signature{{}}, nil
}

func (f *flakyClient) GetTransactionAccountKeys(ctx context.Context, sig solana.Signature) (solana.PublicKeySlice, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return solana.PublicKeySlice{testAddress}, nil
}

var testAddress = solana.SystemProgramID

func fastRetrying(inner Client, attempts int) *Retrying {
	r := NewRetrying(inner, attempts)
	r.base = 0
	r.jitter = 0
	return r
}

func TestRetrying_RetriesRateLimits(t *testing.T) {
	inner := &flakyClient{failures: 2, err: errors.New("429 Too Many Requests")}
	acc, err := fastRetrying(inner, 3).GetAccount(context.Background(), testAddress)
	require.NoError(t, err)
	assert.Equal(t, solana.TokenProgramID, acc.Owner)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrying_GivesUp(t *testing.T) {
	inner := &flakyClient{failures: 10, err: errors.New("server busy")}
	_, err := fastRetrying(inner, 3).GetSignatures(context.Background(), testAddress, 5)
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetrying_DoesNotRetryOtherErrors(t *testing.T) {
	inner := &flakyClient{failures: 1, err: errors.New("invalid param")}
	_, err := fastRetrying(inner, 5).GetTransactionAccountKeys(context.Background(), solana.Signature{})
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetrying_CancelledWhileWaiting(t *testing.T) {
	inner := &flakyClient{failures: 10, err: errors.New("429 Too Many Requests")}
	r := NewRetrying(inner, 5)
	r.base = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.GetAccount(ctx, testAddress)
	require.ErrorIs(t, err, types.ErrCancelled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "cancelled", types.Kind(err))
	assert.Equal(t, 1, inner.calls)
}
