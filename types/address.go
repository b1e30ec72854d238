package types

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// ParseAddress decodes a base58 account address.
func ParseAddress(s string) (solana.PublicKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: empty address", ErrMalformed)
	}
	pk, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: invalid address %q: %w", ErrMalformed, s, err)
	}
	return pk, nil
}

// IsAddress reports whether s is a 32-byte base58 key.
func IsAddress(s string) bool {
	b, err := base58.Decode(strings.TrimSpace(s))
	return err == nil && len(b) == solana.PublicKeyLength
}

// LooksLikePlaceholder reports whether the base58 form of b begins with a run
// of '1's, which is what zero-heavy filler bytes encode to.
func LooksLikePlaceholder(b []byte) bool {
	return strings.HasPrefix(base58.Encode(b), "1111")
}

// ShortAddress renders an address for display, e.g. "8ioa...mHgS".
// The tail is the four characters before the final one.
func ShortAddress(s string) string {
	if len(s) < 9 {
		return s
	}
	return s[:4] + "..." + s[len(s)-5:len(s)-1]
}

// SynthesizeDisplay builds "{A}-{B} LP" / "{A}/{B}" from a pair, using the
// short address form for tokens without a known symbol.
func SynthesizeDisplay(a, b TokenRef) *Display {
	symA, symB := displaySymbol(a), displaySymbol(b)
	return &Display{
		Name:   symA + "-" + symB + " LP",
		Symbol: symA + "/" + symB,
	}
}

func displaySymbol(t TokenRef) string {
	if s := strings.TrimSpace(t.Symbol); s != "" {
		return s
	}
	return ShortAddress(t.Address.String())
}
