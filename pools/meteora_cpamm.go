package pools

import (
	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

const (
	cpammTokenBOffset = 168
	cpammTokenAOffset = 200
	cpammMinSize      = 232
)

// MeteoraCpamm pools keep token B before token A at fixed offsets. The
// layout carries no LP mint to check against, so ownership is the only proof.
type MeteoraCpamm struct{}

func (MeteoraCpamm) Program() solana.PublicKey { return types.METEORA_CPAMM_PROGRAM_ID }
func (MeteoraCpamm) Protocol() types.Protocol  { return types.PROTOCOL_METEORA_CPAMM }

func (MeteoraCpamm) Verify(payload []byte, _ solana.PublicKey) bool {
	return len(payload) >= cpammMinSize
}

func (MeteoraCpamm) Decode(payload []byte, _ solana.PublicKey) (a, b solana.PublicKey, err error) {
	if b, err = keyAt(payload, cpammTokenBOffset); err != nil {
		return a, b, err
	}
	a, err = keyAt(payload, cpammTokenAOffset)
	return a, b, err
}
