package lpresolve

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	rstore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/gagliardetto/solana-go"
)

// NameCache stores token display data between resolutions. It is owned by
// the caller and may be shared by many resolvers.
type NameCache interface {
	Get(ctx context.Context, key any) ([]byte, error)
	Set(ctx context.Context, key any, value []byte, options ...store.Option) error
}

const (
	nameCacheTTL = time.Hour
	// every entry costs 1, so this is an entry count
	nameCacheMaxEntries = 1 << 20
)

// NewNameCache builds an in-process NameCache.
func NewNameCache() (*cache.Cache[[]byte], error) {
	rcache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        10 * nameCacheMaxEntries,
		MaxCost:            nameCacheMaxEntries,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	// synchronous sets make a stored name visible to the next lookup
	ristrettoStore := rstore.NewRistretto(rcache, store.WithCost(1), store.WithSynchronousSet())
	manager := cache.New[[]byte](ristrettoStore)
	return manager, nil
}

type tokenName struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

func nameKey(mint solana.PublicKey) string {
	return "metaplex:" + mint.String()
}

func loadName(ctx context.Context, c NameCache, mint solana.PublicKey) (tokenName, bool) {
	if c == nil {
		return tokenName{}, false
	}
	data, err := c.Get(ctx, nameKey(mint))
	if err != nil || len(data) == 0 {
		return tokenName{}, false
	}
	var n tokenName
	if err := json.Unmarshal(data, &n); err != nil {
		return tokenName{}, false
	}
	return n, true
}

func storeName(ctx context.Context, c NameCache, mint solana.PublicKey, n tokenName) {
	if c == nil {
		return
	}
	data, err := json.Marshal(n)
	if err == nil {
		_ = c.Set(ctx, nameKey(mint), data, store.WithCost(1), store.WithExpiration(nameCacheTTL))
	}
}
