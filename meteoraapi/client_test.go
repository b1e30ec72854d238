package meteoraapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

var (
	lpMint = solana.MustPublicKeyFromBase58("7CjcQxLocwsxF31HCaBqKAbKmkSVQTz2PPJVMdFkun7y")
	sol    = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	usdc   = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	bonk   = solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
)

type route struct {
	status int
	body   any
}

func newServer(t *testing.T, routes map[string]route) (*httptest.Server, *[]string) {
	t.Helper()
	var hits []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		hits = append(hits, key)
		rt, ok := routes[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if rt.status != 0 {
			w.WriteHeader(rt.status)
		}
		switch b := rt.body.(type) {
		case string:
			_, _ = w.Write([]byte(b))
		case nil:
		default:
			_ = json.NewEncoder(w).Encode(b)
		}
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func dammEntry(lp solana.PublicKey, name string) map[string]any {
	return dammEntryFor(lp, name, sol, usdc)
}

func dammEntryFor(lp solana.PublicKey, name string, a, b solana.PublicKey) map[string]any {
	return map[string]any{
		"pool_address":     "pool-" + lp.String()[:6],
		"lp_mint":          lp.String(),
		"pool_name":        name,
		"pool_token_mints": []string{a.String(), b.String()},
		"pool_tvl":         "1024.50",
		"trading_volume":   77.25,
	}
}

func TestResolveDAMM_SelectsExactLpMint(t *testing.T) {
	type entry struct {
		lp   solana.PublicKey
		name string
		a, b solana.PublicKey
		symA string
		symB string
	}
	entries := []entry{
		{lp: lpMint, name: "SOL-USDC", a: sol, b: usdc, symA: "SOL", symB: "USDC"},
		{lp: bonk, name: "BONK-SOL", a: bonk, b: sol, symA: "BONK", symB: "SOL"},
		{lp: usdc, name: "USDC-SOL", a: usdc, b: sol, symA: "USDC", symB: "SOL"},
	}
	permutations := [][]int{
		{0, 1, 2}, {0, 2, 1},
		{1, 0, 2}, {1, 2, 0},
		{2, 0, 1}, {2, 1, 0},
	}

	for k, want := range entries {
		for _, perm := range permutations {
			list := make([]map[string]any, 0, len(perm))
			for _, i := range perm {
				e := entries[i]
				list = append(list, dammEntryFor(e.lp, e.name, e.a, e.b))
			}
			server, _ := newServer(t, map[string]route{
				"/pools?lp_mint=" + want.lp.String(): {body: list},
			})
			rec, err := New(server.URL, server.URL).ResolveDAMM(context.Background(), want.lp)
			require.NoError(t, err, "entry %d, order %v", k, perm)
			assert.Equal(t, want.a, rec.TokenA.Address, "entry %d, order %v", k, perm)
			assert.Equal(t, want.b, rec.TokenB.Address, "entry %d, order %v", k, perm)
			assert.Equal(t, want.symA, rec.TokenA.Symbol)
			assert.Equal(t, want.symB, rec.TokenB.Symbol)
			assert.Equal(t, types.PROTOCOL_METEORA_API_DAMM, rec.Protocol)
			require.NotNil(t, rec.LPMint)
			assert.Equal(t, want.lp, *rec.LPMint)
			require.NotNil(t, rec.TVL)
			assert.Equal(t, "1024.5", rec.TVL.String())
			require.NotNil(t, rec.Volume)
			assert.Equal(t, "77.25", rec.Volume.String())
		}
	}
}

func TestResolveDAMM_NeverGuesses(t *testing.T) {
	server, hits := newServer(t, map[string]route{
		"/pools?lp_mint=" + lpMint.String(): {body: []any{dammEntry(bonk, "BONK-SOL")}},
	})
	_, err := New(server.URL, server.URL).ResolveDAMM(context.Background(), lpMint)
	assert.ErrorIs(t, err, types.ErrNotFound)
	assert.Equal(t, []string{
		"/pools?lp_mint=" + lpMint.String(),
		"/pools/" + lpMint.String(),
	}, *hits)
}

func TestResolveDAMM_PathFallbackAndNameAddresses(t *testing.T) {
	server, _ := newServer(t, map[string]route{
		"/pools?lp_mint=" + lpMint.String(): {status: http.StatusInternalServerError, body: "boom"},
		"/pools/" + lpMint.String(): {body: map[string]any{
			"lp_mint":   lpMint.String(),
			"pool_name": bonk.String() + "-" + usdc.String(),
		}},
	})
	rec, err := New(server.URL, server.URL).ResolveDAMM(context.Background(), lpMint)
	require.NoError(t, err)
	assert.Equal(t, bonk, rec.TokenA.Address)
	assert.Equal(t, usdc, rec.TokenB.Address)
	assert.Empty(t, rec.TokenA.Symbol)
}

func TestResolveDAMM_LegacyFieldsAndWrappedList(t *testing.T) {
	server, _ := newServer(t, map[string]route{
		"/pools?lp_mint=" + lpMint.String(): {body: map[string]any{
			"data": []any{map[string]any{
				"lp_mint":      lpMint.String(),
				"token_a_mint": bonk.String(),
				"token_b_mint": sol.String(),
				"pool_tvl":     nil,
			}},
		}},
	})
	rec, err := New(server.URL, server.URL).ResolveDAMM(context.Background(), lpMint)
	require.NoError(t, err)
	assert.Equal(t, bonk, rec.TokenA.Address)
	assert.Equal(t, sol, rec.TokenB.Address)
	assert.Nil(t, rec.TVL)
}

func TestResolveDAMM_RejectsIdenticalPair(t *testing.T) {
	server, _ := newServer(t, map[string]route{
		"/pools?lp_mint=" + lpMint.String(): {body: []any{map[string]any{
			"lp_mint":          lpMint.String(),
			"pool_token_mints": []string{sol.String(), sol.String()},
		}}},
	})
	_, err := New(server.URL, server.URL).ResolveDAMM(context.Background(), lpMint)
	assert.ErrorIs(t, err, types.ErrMalformed)
}

func TestResolve_FallsThroughToDLMM(t *testing.T) {
	server, _ := newServer(t, map[string]route{
		"/pair/" + lpMint.String(): {body: map[string]any{
			"address":          lpMint.String(),
			"name":             "BONK-SOL",
			"mint_x":           bonk.String(),
			"mint_y":           sol.String(),
			"liquidity":        "5000.125",
			"trade_volume_24h": 12,
		}},
	})
	rec, err := New(server.URL, server.URL).Resolve(context.Background(), lpMint)
	require.NoError(t, err)
	assert.Equal(t, types.PROTOCOL_METEORA_API_DLMM, rec.Protocol)
	assert.Equal(t, bonk, rec.TokenA.Address)
	assert.Equal(t, "BONK", rec.TokenA.Symbol)
	assert.Equal(t, sol, rec.TokenB.Address)
	assert.Equal(t, "SOL", rec.TokenB.Symbol)
	require.NotNil(t, rec.PoolAddress)
	assert.Equal(t, lpMint, *rec.PoolAddress)
	assert.Equal(t, "5000.125", rec.TVL.String())
	assert.Nil(t, rec.LPMint)
}

func TestResolveDLMM_LegacyMintFields(t *testing.T) {
	server, _ := newServer(t, map[string]route{
		"/pair/" + lpMint.String(): {body: map[string]any{
			"tokenXMint": usdc.String(),
			"tokenYMint": sol.String(),
		}},
	})
	rec, err := New(server.URL, server.URL).ResolveDLMM(context.Background(), lpMint)
	require.NoError(t, err)
	assert.Equal(t, usdc, rec.TokenA.Address)
	assert.Equal(t, sol, rec.TokenB.Address)
}

func TestResolve_ErrorsBecomeNotFound(t *testing.T) {
	server, _ := newServer(t, map[string]route{
		"/pools?lp_mint=" + lpMint.String(): {body: "{not json"},
		"/pair/" + lpMint.String():          {body: "[1,2,3]"},
	})
	_, err := New(server.URL, server.URL).Resolve(context.Background(), lpMint)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestResolve_Cancelled(t *testing.T) {
	server, _ := newServer(t, map[string]route{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(server.URL, server.URL).Resolve(ctx, lpMint)
	assert.ErrorIs(t, err, types.ErrCancelled)
}

func TestSplitPair(t *testing.T) {
	l, r, ok := splitPair("SOL-USDC")
	assert.True(t, ok)
	assert.Equal(t, "SOL", l)
	assert.Equal(t, "USDC", r)

	l, r, ok = splitPair("wstETH-SOL-LP")
	assert.True(t, ok)
	assert.Equal(t, "wstETH", l)
	assert.Equal(t, "SOL-LP", r)

	_, _, ok = splitPair("SOL")
	assert.False(t, ok)
}
