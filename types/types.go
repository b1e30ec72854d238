package types

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

type Protocol string

const (
	PROTOCOL_LIFINITY         Protocol = "lifinity"
	PROTOCOL_METEORA_CPAMM    Protocol = "meteora_cpamm"
	PROTOCOL_PUMPSWAP         Protocol = "pumpswap"
	PROTOCOL_METEORA_API_DAMM Protocol = "meteora_api_damm"
	PROTOCOL_METEORA_API_DLMM Protocol = "meteora_api_dlmm"

	// pair read straight out of the mint authority's account
	PROTOCOL_AUTHORITY_PROBE Protocol = "authority_probe"
)

type Outcome string

const (
	OUTCOME_RESOLVED  Outcome = "resolved"
	OUTCOME_NOT_FOUND Outcome = "not_found"
	OUTCOME_CANCELLED Outcome = "cancelled"
)

const SOURCE_METAPLEX = "metaplex"

// MintAccount is the decoded state of an SPL Token or Token-2022 mint.
type MintAccount struct {
	Address         solana.PublicKey  `json:"address"`
	Decimals        uint8             `json:"decimals"`
	Supply          string            `json:"supply"`
	MintAuthority   *solana.PublicKey `json:"mintAuthority,omitempty"`
	FreezeAuthority *solana.PublicKey `json:"freezeAuthority,omitempty"`
	IsToken2022     bool              `json:"isToken2022"`
}

// SupplyUI returns the supply scaled by decimals.
func (m MintAccount) SupplyUI() decimal.Decimal {
	raw, err := decimal.NewFromString(m.Supply)
	if err != nil {
		return decimal.Zero
	}
	return raw.Shift(-int32(m.Decimals))
}

// PoolCandidate is an account owned by a target program, found through discovery.
type PoolCandidate struct {
	PoolAddress    solana.PublicKey
	OwnerProgramID solana.PublicKey
	Data           []byte
}

type TokenRef struct {
	Address solana.PublicKey `json:"address"`
	Symbol  string           `json:"symbol,omitempty"`
	Name    string           `json:"name,omitempty"`
}

// PoolRecord is a resolved token pair and where it came from.
type PoolRecord struct {
	PoolAddress *solana.PublicKey `json:"poolAddress,omitempty"`
	ProgramID   solana.PublicKey  `json:"programId"`
	Protocol    Protocol          `json:"protocol"`
	LPMint      *solana.PublicKey `json:"lpMint,omitempty"`
	TokenA      TokenRef          `json:"tokenA"`
	TokenB      TokenRef          `json:"tokenB"`
	TVL         *decimal.Decimal  `json:"tvl,omitempty"`
	Volume      *decimal.Decimal  `json:"volume,omitempty"`
}

// Validate rejects pairs that cannot describe a real pool.
func (p *PoolRecord) Validate() error {
	return ValidatePair(p.TokenA.Address, p.TokenB.Address)
}

// ValidatePair checks that a and b are distinct and neither is the system program.
func ValidatePair(a, b solana.PublicKey) error {
	if a.IsZero() || b.IsZero() {
		return fmt.Errorf("%w: pair contains the system program", ErrMalformed)
	}
	if a.Equals(b) {
		return fmt.Errorf("%w: pair tokens are identical (%s)", ErrMalformed, a)
	}
	return nil
}

// MetaplexMetadata holds the fixed-layout head of a Token Metadata account.
type MetaplexMetadata struct {
	Mint                 solana.PublicKey `json:"mint"`
	UpdateAuthority      solana.PublicKey `json:"updateAuthority"`
	Name                 string           `json:"name"`
	Symbol               string           `json:"symbol"`
	URI                  string           `json:"uri"`
	SellerFeeBasisPoints uint16           `json:"sellerFeeBasisPoints"`
}

type Display struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Resolution is the merged answer for one address.
// Pool is only set once its pair has passed Validate.
type Resolution struct {
	Outcome  Outcome           `json:"outcome"`
	Address  solana.PublicKey  `json:"address"`
	Mint     *MintAccount      `json:"mint,omitempty"`
	IsLP     bool              `json:"isLp"`
	Pool     *PoolRecord       `json:"pool,omitempty"`
	Metadata *MetaplexMetadata `json:"metadata,omitempty"`
	Display  *Display          `json:"display,omitempty"`
	Source   string            `json:"source,omitempty"`
}
