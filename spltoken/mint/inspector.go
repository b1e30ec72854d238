package mint

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/sirupsen/logrus"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

// Base SPL mint layout size; Token-2022 extensions follow it.
const mintAccountSize = 82

// Inspection is what can be learned about a mint from its own account and
// its mint authority's account.
type Inspection struct {
	Mint types.MintAccount

	IsLP bool
	// Set when the mint authority is itself a pool account.
	PoolAddress *solana.PublicKey
	PoolOwner   solana.PublicKey
	PoolData    []byte
	// Pair recovered by probing the pool account, already validated.
	Pool *types.PoolRecord
}

type Inspector struct {
	client chain.Client
}

func NewInspector(client chain.Client) *Inspector {
	return &Inspector{client: client}
}

// Inspect fetches and decodes the mint. It fails closed: a missing account or
// one not owned by a token program is reported as an error, never as a mint.
func (i *Inspector) Inspect(ctx context.Context, address solana.PublicKey) (*Inspection, error) {
	log := types.LoggerFrom(ctx).WithField("stage", "mint")

	acc, err := i.client.GetAccount(ctx, address)
	if err != nil {
		return nil, err
	}
	if !types.IsTokenProgram(acc.Owner) {
		return nil, fmt.Errorf("%w: %s is owned by %s", types.ErrWrongOwner, address, acc.Owner)
	}

	m, err := DecodeMint(address, acc.Data)
	if err != nil {
		return nil, err
	}
	m.IsToken2022 = acc.Owner.Equals(types.TOKEN_2022_PROGRAM_ID)

	res := &Inspection{Mint: *m}
	if m.MintAuthority == nil {
		return res, nil
	}
	authority := *m.MintAuthority

	if types.IsKnownAMM(authority) {
		log.WithField("authority", authority).Debug("mint authority is an AMM program")
		res.IsLP = true
		return res, nil
	}

	authAcc, err := i.client.GetAccount(ctx, authority)
	if err != nil {
		if errors.Is(err, types.ErrCancelled) {
			return nil, err
		}
		types.LogFailure(ctx, "mint", err)
		return res, nil
	}
	if !types.IsKnownAMM(authAcc.Owner) {
		return res, nil
	}

	res.IsLP = true
	res.PoolAddress = &authority
	res.PoolOwner = authAcc.Owner
	res.PoolData = authAcc.Data

	a, b, ok := ProbePair(authAcc.Data)
	if !ok {
		log.WithFields(logrus.Fields{
			"pool":  authority,
			"owner": authAcc.Owner,
		}).Debug("no token pair at known offsets")
		return res, nil
	}
	lpMint := address
	res.Pool = &types.PoolRecord{
		PoolAddress: &authority,
		ProgramID:   authAcc.Owner,
		Protocol:    types.PROTOCOL_AUTHORITY_PROBE,
		LPMint:      &lpMint,
		TokenA:      types.TokenRef{Address: a},
		TokenB:      types.TokenRef{Address: b},
	}
	return res, nil
}

// DecodeMint decodes the base SPL mint layout.
func DecodeMint(address solana.PublicKey, data []byte) (*types.MintAccount, error) {
	if len(data) < mintAccountSize {
		return nil, fmt.Errorf("%w: mint account %s is %d bytes", types.ErrMalformed, address, len(data))
	}
	var mint token.Mint
	if err := bin.NewBinDecoder(data[:mintAccountSize]).Decode(&mint); err != nil {
		return nil, fmt.Errorf("%w: decode mint %s: %w", types.ErrMalformed, address, err)
	}
	if !mint.IsInitialized {
		return nil, fmt.Errorf("%w: mint %s is not initialized", types.ErrMalformed, address)
	}
	return &types.MintAccount{
		Address:         address,
		Decimals:        mint.Decimals,
		Supply:          strconv.FormatUint(mint.Supply, 10),
		MintAuthority:   mint.MintAuthority,
		FreezeAuthority: mint.FreezeAuthority,
	}, nil
}

// probeOffsets are the (tokenA, tokenB) positions tried, in order.
var probeOffsets = [][2]int{
	{8, 40},
	{40, 72},
	{72, 104},
	{104, 136},
	{136, 168},
	{200, 232},
	{232, 264},
}

// ProbePair returns the first pair of keys at a known offset pair that looks
// like two distinct real tokens.
func ProbePair(data []byte) (a, b solana.PublicKey, ok bool) {
	for _, off := range probeOffsets {
		if off[1]+solana.PublicKeyLength > len(data) {
			continue
		}
		rawA := data[off[0] : off[0]+solana.PublicKeyLength]
		rawB := data[off[1] : off[1]+solana.PublicKeyLength]
		if types.LooksLikePlaceholder(rawA) || types.LooksLikePlaceholder(rawB) {
			continue
		}
		a = solana.PublicKeyFromBytes(rawA)
		b = solana.PublicKeyFromBytes(rawB)
		if types.ValidatePair(a, b) != nil {
			continue
		}
		return a, b, true
	}
	return solana.PublicKey{}, solana.PublicKey{}, false
}
