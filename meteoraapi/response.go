package meteoraapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// optString accepts a JSON string, number or null.
type optString string

func (s *optString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = optString(strings.TrimSpace(v))
	default:
		*s = optString(b)
	}
	return nil
}

// optDecimal parses numbers and numeric strings; anything else is left unset.
type optDecimal struct {
	Value *decimal.Decimal
}

func (d *optDecimal) UnmarshalJSON(b []byte) error {
	var s optString
	if s.UnmarshalJSON(b) != nil {
		return nil
	}
	if v, err := decimal.NewFromString(string(s)); err == nil {
		d.Value = &v
	}
	return nil
}

type dammPool struct {
	PoolAddress    optString   `json:"pool_address"`
	LpMint         optString   `json:"lp_mint"`
	PoolName       optString   `json:"pool_name"`
	PoolTokenMints []optString `json:"pool_token_mints"`
	TokenAMint     optString   `json:"token_a_mint"`
	TokenBMint     optString   `json:"token_b_mint"`
	PoolTVL        optDecimal  `json:"pool_tvl"`
	TradingVolume  optDecimal  `json:"trading_volume"`
}

// dammResponse is either a list of pools or a single pool. Some deployments
// wrap the list in {"data": [...]}.
type dammResponse struct {
	List   []dammPool
	Single *dammPool
}

func (r *dammResponse) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return fmt.Errorf("empty damm response")
	}
	switch b[0] {
	case '[':
		return json.Unmarshal(b, &r.List)
	case '{':
		var wrapped struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(b, &wrapped); err == nil {
			if d := bytes.TrimSpace(wrapped.Data); len(d) > 0 && d[0] == '[' {
				return json.Unmarshal(d, &r.List)
			}
		}
		var p dammPool
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		r.Single = &p
		return nil
	default:
		return fmt.Errorf("unexpected damm response starting with %q", b[0])
	}
}

type dlmmPair struct {
	Address        optString  `json:"address"`
	Name           optString  `json:"name"`
	MintX          optString  `json:"mint_x"`
	MintY          optString  `json:"mint_y"`
	TokenXMint     optString  `json:"tokenXMint"`
	TokenYMint     optString  `json:"tokenYMint"`
	Liquidity      optDecimal `json:"liquidity"`
	TradeVolume24h optDecimal `json:"trade_volume_24h"`
}
