package pools

import (
	"bytes"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

// Lifinity pools store the LP mint followed by token A and token B mints.
// The position of that block is not fixed, so it is located by content.
type Lifinity struct{}

func (Lifinity) Program() solana.PublicKey { return types.LIFINITY_V2_PROGRAM_ID }
func (Lifinity) Protocol() types.Protocol  { return types.PROTOCOL_LIFINITY }

func (Lifinity) Verify(payload []byte, lpMint solana.PublicKey) bool {
	m := bytes.Index(payload, lpMint[:])
	return m >= 0 && m+3*solana.PublicKeyLength <= len(payload)
}

func (Lifinity) Decode(payload []byte, lpMint solana.PublicKey) (a, b solana.PublicKey, err error) {
	m := bytes.Index(payload, lpMint[:])
	if m < 0 {
		return a, b, fmt.Errorf("%w: lp mint %s not in lifinity pool", types.ErrMalformed, lpMint)
	}
	if a, err = keyAt(payload, m+32); err != nil {
		return a, b, err
	}
	b, err = keyAt(payload, m+64)
	return a, b, err
}
