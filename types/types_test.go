package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "8ioa...mHgS", ShortAddress("8ioaL3gTSAhNJy3t9JakXuoKobJvms62Ko5aWHvmHgSf"))
	assert.Equal(t, "abc", ShortAddress("abc"))
}

func TestValidatePair(t *testing.T) {
	a := solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	b := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

	require.NoError(t, ValidatePair(a, b))

	err := ValidatePair(a, a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)

	assert.ErrorIs(t, ValidatePair(a, SYSTEM_PROGRAM_ID), ErrMalformed)
	assert.ErrorIs(t, ValidatePair(solana.PublicKey{}, b), ErrMalformed)

	rec := &PoolRecord{TokenA: TokenRef{Address: b}, TokenB: TokenRef{Address: a}}
	assert.NoError(t, rec.Validate())
}

func TestKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{fmt.Errorf("x: %w", ErrNotFound), "not_found"},
		{fmt.Errorf("x: %w", ErrWrongOwner), "wrong_owner"},
		{fmt.Errorf("x: %w", ErrMalformed), "malformed"},
		{fmt.Errorf("x: %w", ErrCancelled), "cancelled"},
		{errors.New("connection reset by peer"), "transport"},
		{fmt.Errorf("rpc: %w", ErrTransport), "transport"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Kind(tc.err), "err=%v", tc.err)
	}
}

func TestSupplyUI(t *testing.T) {
	m := MintAccount{Supply: "123456789", Decimals: 6}
	assert.Equal(t, "123.456789", m.SupplyUI().String())

	m = MintAccount{Supply: "", Decimals: 6}
	assert.True(t, m.SupplyUI().IsZero())
}

func TestLooksLikePlaceholder(t *testing.T) {
	assert.True(t, LooksLikePlaceholder(make([]byte, 32)))

	mostlyZero := make([]byte, 32)
	mostlyZero[31] = 7
	assert.True(t, LooksLikePlaceholder(mostlyZero))

	usdc := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	assert.False(t, LooksLikePlaceholder(usdc.Bytes()))
}

func TestParseAddress(t *testing.T) {
	pk, err := ParseAddress(" 7CjcQxLocwsxF31HCaBqKAbKmkSVQTz2PPJVMdFkun7y ")
	require.NoError(t, err)
	assert.Equal(t, "7CjcQxLocwsxF31HCaBqKAbKmkSVQTz2PPJVMdFkun7y", pk.String())

	_, err = ParseAddress("not-a-base58")
	assert.ErrorIs(t, err, ErrMalformed)

	assert.True(t, IsAddress("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"))
	assert.False(t, IsAddress("BONK"))
}

func TestIsKnownAMM(t *testing.T) {
	assert.True(t, IsKnownAMM(PUMPSWAP_AMM_PROGRAM_ID))
	assert.True(t, IsKnownAMM(LIFINITY_V2_PROGRAM_ID))
	assert.False(t, IsKnownAMM(TOKEN_PROGRAM_ID))
	assert.True(t, IsTokenProgram(TOKEN_2022_PROGRAM_ID))
}

func TestSynthesizeDisplay(t *testing.T) {
	bonk := TokenRef{Address: solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"), Symbol: "BONK"}
	unknown := TokenRef{Address: solana.MustPublicKeyFromBase58("8ioaL3gTSAhNJy3t9JakXuoKobJvms62Ko5aWHvmHgSf")}

	d := SynthesizeDisplay(bonk, unknown)
	assert.Equal(t, "BONK/8ioa...mHgS", d.Symbol)
	assert.Equal(t, "BONK-8ioa...mHgS LP", d.Name)
}
