package types

import (
	"github.com/gagliardetto/solana-go"
)

// Program ids the resolver knows about.
var (
	TOKEN_PROGRAM_ID      = solana.TokenProgramID
	TOKEN_2022_PROGRAM_ID = solana.Token2022ProgramID
	SYSTEM_PROGRAM_ID     = solana.SystemProgramID

	METAPLEX_METADATA_PROGRAM_ID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

	LIFINITY_V2_PROGRAM_ID    = solana.MustPublicKeyFromBase58("2wT8Yq49kHgDzXuPxZSaeLaH1qbmGXtEyPy64bL7aD3c")
	METEORA_CPAMM_PROGRAM_ID  = solana.MustPublicKeyFromBase58("cpamdpZCGKUy5JxQXB4dcpGPiikHawvSWAd6mEn1sGG")
	METEORA_POOLS_PROGRAM_ID  = solana.MustPublicKeyFromBase58("Eo7WjKq67rjJQSZxS6z3YkapzY3eMj6Xy8X5EQVn5UaB")
	METEORA_DLMM_PROGRAM_ID   = solana.MustPublicKeyFromBase58("LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo")
	PUMPSWAP_AMM_PROGRAM_ID   = solana.MustPublicKeyFromBase58("pAMMBay6oceH9fJKBRHGP5D4bD4sWpmSwMn52FMfXEA")
	RAYDIUM_V4_PROGRAM_ID     = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	RAYDIUM_CPMM_PROGRAM_ID   = solana.MustPublicKeyFromBase58("CPMMoo8L3F4NbTegBCKVNunggL7H1ZpdTHKxQB5qKP1C")
	RAYDIUM_CLMM_PROGRAM_ID   = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	ORCA_WHIRLPOOL_PROGRAM_ID = solana.MustPublicKeyFromBase58("whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc")
	ORCA_SWAP_V2_PROGRAM_ID   = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
)

// IsTokenProgram reports whether pk owns SPL mint accounts.
func IsTokenProgram(pk solana.PublicKey) bool {
	return pk.Equals(TOKEN_PROGRAM_ID) || pk.Equals(TOKEN_2022_PROGRAM_ID)
}

// IsKnownAMM reports whether pk is an AMM program whose pools mint LP shares.
func IsKnownAMM(pk solana.PublicKey) bool {
	switch {
	// Lifinity
	case pk.Equals(LIFINITY_V2_PROGRAM_ID):
		return true
	// Meteora family (CP-AMM / Pools / DLMM)
	case pk.Equals(METEORA_CPAMM_PROGRAM_ID),
		pk.Equals(METEORA_POOLS_PROGRAM_ID),
		pk.Equals(METEORA_DLMM_PROGRAM_ID):
		return true
	// PumpSwap
	case pk.Equals(PUMPSWAP_AMM_PROGRAM_ID):
		return true
	// Raydium (v4/CPMM/CLMM)
	case pk.Equals(RAYDIUM_V4_PROGRAM_ID),
		pk.Equals(RAYDIUM_CPMM_PROGRAM_ID),
		pk.Equals(RAYDIUM_CLMM_PROGRAM_ID):
		return true
	// Orca
	case pk.Equals(ORCA_WHIRLPOOL_PROGRAM_ID),
		pk.Equals(ORCA_SWAP_V2_PROGRAM_ID):
		return true
	default:
		return false
	}
}
