package metaplex

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

const (
	maxSeeds      = 16
	maxSeedLength = 32
	pdaMarker     = "ProgramDerivedAddress"
)

var errOnCurve = errors.New("invalid seeds, address must fall off the curve")

// FindMetadataAddress derives the Token Metadata account of mint.
func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, uint8, error) {
	programID := types.METAPLEX_METADATA_PROGRAM_ID
	return FindProgramAddress([][]byte{
		[]byte("metadata"),
		programID[:],
		mint[:],
	}, programID)
}

// FindProgramAddress searches bumps from 255 down to 0 for the first seed
// set whose hash is not a valid ed25519 point.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	if len(seeds) >= maxSeeds {
		return solana.PublicKey{}, 0, fmt.Errorf("too many seeds: %d", len(seeds))
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateProgramAddress(append(seeds[:len(seeds):len(seeds)], []byte{byte(bump)}), programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, errOnCurve) {
			return solana.PublicKey{}, 0, err
		}
	}
	return solana.PublicKey{}, 0, fmt.Errorf("unable to find a viable program address bump")
}

// CreateProgramAddress hashes seeds with the program id and rejects results
// that lie on the curve.
func CreateProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, error) {
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return solana.PublicKey{}, fmt.Errorf("seed of %d bytes exceeds %d", len(seed), maxSeedLength)
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(pdaMarker))

	sum := h.Sum(nil)
	if IsOnCurve(sum) {
		return solana.PublicKey{}, errOnCurve
	}
	return solana.PublicKeyFromBytes(sum), nil
}

// IsOnCurve reports whether b decodes to a valid ed25519 point.
func IsOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
