package pools

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

// PUMPSWAP_POOL_DISCRIMINATOR is the anchor account discriminator of a Pool.
var PUMPSWAP_POOL_DISCRIMINATOR = [8]byte{241, 154, 109, 4, 17, 177, 109, 188}

const pumpSwapHeaderSize = 139

type pumpSwapPoolHeader struct {
	Discriminator [8]byte
	PoolBump      uint8
	Index         uint16
	Creator       solana.PublicKey
	BaseMint      solana.PublicKey
	QuoteMint     solana.PublicKey
	LpMint        solana.PublicKey
}

func decodePumpSwapHeader(payload []byte) (*pumpSwapPoolHeader, error) {
	if len(payload) < pumpSwapHeaderSize {
		return nil, fmt.Errorf("%w: pumpswap pool is %d bytes", types.ErrMalformed, len(payload))
	}
	var h pumpSwapPoolHeader
	if err := borsh.Deserialize(&h, payload[:pumpSwapHeaderSize]); err != nil {
		return nil, fmt.Errorf("%w: decode pumpswap pool: %w", types.ErrMalformed, err)
	}
	return &h, nil
}

type PumpSwap struct{}

func (PumpSwap) Program() solana.PublicKey { return types.PUMPSWAP_AMM_PROGRAM_ID }
func (PumpSwap) Protocol() types.Protocol  { return types.PROTOCOL_PUMPSWAP }

func (PumpSwap) Verify(payload []byte, lpMint solana.PublicKey) bool {
	if len(payload) < pumpSwapHeaderSize || !bytes.Equal(payload[:8], PUMPSWAP_POOL_DISCRIMINATOR[:]) {
		return false
	}
	h, err := decodePumpSwapHeader(payload)
	return err == nil && h.LpMint.Equals(lpMint)
}

func (PumpSwap) Decode(payload []byte, lpMint solana.PublicKey) (a, b solana.PublicKey, err error) {
	h, err := decodePumpSwapHeader(payload)
	if err != nil {
		return a, b, err
	}
	if !h.LpMint.Equals(lpMint) {
		return a, b, fmt.Errorf("%w: pumpswap pool lp mint is %s, want %s", types.ErrMalformed, h.LpMint, lpMint)
	}
	return h.BaseMint, h.QuoteMint, nil
}
