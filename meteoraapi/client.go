package meteoraapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

const (
	DefaultDammURL = "https://amm-v2.meteora.ag"
	DefaultDlmmURL = "https://dlmm-api.meteora.ag"

	DefaultTimeout = 30 * time.Second
)

// Client resolves pool pairs through Meteora's public DAMM and DLMM APIs.
type Client struct {
	http    *http.Client
	dammURL string
	dlmmURL string
}

func New(dammURL, dlmmURL string) *Client {
	if dammURL == "" {
		dammURL = DefaultDammURL
	}
	if dlmmURL == "" {
		dlmmURL = DefaultDlmmURL
	}
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		dammURL: strings.TrimRight(dammURL, "/"),
		dlmmURL: strings.TrimRight(dlmmURL, "/"),
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// Resolve looks address up as a DAMM LP mint, then as a DLMM pair address.
// Every failure other than cancellation is reported as types.ErrNotFound.
func (c *Client) Resolve(ctx context.Context, address solana.PublicKey) (*types.PoolRecord, error) {
	rec, err := c.ResolveDAMM(ctx, address)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, types.ErrCancelled) {
		return nil, err
	}
	types.LogFailure(ctx, "meteora_damm", err)

	rec, err = c.ResolveDLMM(ctx, address)
	if err == nil {
		return rec, nil
	}
	if errors.Is(err, types.ErrCancelled) {
		return nil, err
	}
	types.LogFailure(ctx, "meteora_dlmm", err)
	return nil, fmt.Errorf("meteora api has no pool for %s: %w", address, types.ErrNotFound)
}

// ResolveDAMM queries by LP mint and falls back to the pool path form.
func (c *Client) ResolveDAMM(ctx context.Context, address solana.PublicKey) (*types.PoolRecord, error) {
	addr := address.String()

	var resp dammResponse
	err := c.getJSON(ctx, c.dammURL+"/pools?lp_mint="+url.QueryEscape(addr), &resp)
	pool := selectDammPool(resp, addr)
	if pool == nil {
		if errors.Is(err, types.ErrCancelled) {
			return nil, err
		}
		if err != nil {
			types.LogFailure(ctx, "meteora_damm", err)
		}
		resp = dammResponse{}
		if err := c.getJSON(ctx, c.dammURL+"/pools/"+url.PathEscape(addr), &resp); err != nil {
			return nil, err
		}
		pool = selectDammPool(resp, addr)
	}
	if pool == nil {
		return nil, fmt.Errorf("damm: no pool with lp mint %s: %w", addr, types.ErrNotFound)
	}
	return dammRecord(pool, address)
}

// selectDammPool never guesses: a list entry must carry lp_mint == addr.
func selectDammPool(resp dammResponse, addr string) *dammPool {
	for i := range resp.List {
		if string(resp.List[i].LpMint) == addr {
			return &resp.List[i]
		}
	}
	if p := resp.Single; p != nil {
		if string(p.LpMint) == addr || string(p.PoolAddress) == addr {
			return p
		}
	}
	return nil
}

func dammRecord(p *dammPool, queried solana.PublicKey) (*types.PoolRecord, error) {
	var tokenA, tokenB types.TokenRef

	left, right, hasName := splitPair(string(p.PoolName))
	switch {
	case hasName && types.IsAddress(left) && types.IsAddress(right):
		tokenA.Address = solana.MustPublicKeyFromBase58(left)
		tokenB.Address = solana.MustPublicKeyFromBase58(right)
	case len(p.PoolTokenMints) >= 2 && types.IsAddress(string(p.PoolTokenMints[0])) && types.IsAddress(string(p.PoolTokenMints[1])):
		tokenA.Address = solana.MustPublicKeyFromBase58(string(p.PoolTokenMints[0]))
		tokenB.Address = solana.MustPublicKeyFromBase58(string(p.PoolTokenMints[1]))
	case types.IsAddress(string(p.TokenAMint)) && types.IsAddress(string(p.TokenBMint)):
		tokenA.Address = solana.MustPublicKeyFromBase58(string(p.TokenAMint))
		tokenB.Address = solana.MustPublicKeyFromBase58(string(p.TokenBMint))
	default:
		return nil, fmt.Errorf("%w: damm pool %q has no token mints", types.ErrMalformed, p.PoolAddress)
	}
	if hasName && !types.IsAddress(left) && !types.IsAddress(right) {
		tokenA.Symbol, tokenB.Symbol = left, right
	}

	rec := &types.PoolRecord{
		ProgramID: types.METEORA_POOLS_PROGRAM_ID,
		Protocol:  types.PROTOCOL_METEORA_API_DAMM,
		TokenA:    tokenA,
		TokenB:    tokenB,
		TVL:       p.PoolTVL.Value,
		Volume:    p.TradingVolume.Value,
	}
	if types.IsAddress(string(p.PoolAddress)) {
		pk := solana.MustPublicKeyFromBase58(string(p.PoolAddress))
		rec.PoolAddress = &pk
	}
	if types.IsAddress(string(p.LpMint)) {
		pk := solana.MustPublicKeyFromBase58(string(p.LpMint))
		rec.LPMint = &pk
	} else {
		rec.LPMint = &queried
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// ResolveDLMM treats address as a DLMM pair account.
func (c *Client) ResolveDLMM(ctx context.Context, address solana.PublicKey) (*types.PoolRecord, error) {
	var pair dlmmPair
	if err := c.getJSON(ctx, c.dlmmURL+"/pair/"+url.PathEscape(address.String()), &pair); err != nil {
		return nil, err
	}

	x := firstNonEmpty(string(pair.MintX), string(pair.TokenXMint))
	y := firstNonEmpty(string(pair.MintY), string(pair.TokenYMint))
	if !types.IsAddress(x) || !types.IsAddress(y) {
		return nil, fmt.Errorf("dlmm: pair %s has no token mints: %w", address, types.ErrNotFound)
	}

	pool := address
	rec := &types.PoolRecord{
		PoolAddress: &pool,
		ProgramID:   types.METEORA_DLMM_PROGRAM_ID,
		Protocol:    types.PROTOCOL_METEORA_API_DLMM,
		TokenA:      types.TokenRef{Address: solana.MustPublicKeyFromBase58(x)},
		TokenB:      types.TokenRef{Address: solana.MustPublicKeyFromBase58(y)},
		TVL:         pair.Liquidity.Value,
		Volume:      pair.TradeVolume24h.Value,
	}
	if left, right, ok := splitPair(string(pair.Name)); ok {
		rec.TokenA.Symbol, rec.TokenB.Symbol = left, right
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	log := types.LoggerFrom(ctx).WithFields(logrus.Fields{"stage": "meteora_api", "url": endpoint})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", types.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", types.ErrCancelled, ctx.Err())
		}
		return fmt.Errorf("%w: GET %s: %w", types.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", endpoint, types.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: GET %s: status %d", types.ErrTransport, endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", types.ErrTransport, endpoint, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", types.ErrMalformed, endpoint, err)
	}
	log.Debug("meteora api response decoded")
	return nil
}

// splitPair splits "A-B" on the first dash.
func splitPair(name string) (left, right string, ok bool) {
	left, right, ok = strings.Cut(strings.TrimSpace(name), "-")
	left, right = strings.TrimSpace(left), strings.TrimSpace(right)
	return left, right, ok && left != "" && right != ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

