package metaplex

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/chain"
	"github.com/franco-bianco/solana-lp-resolver/types"
)

// Resolver reads Token Metadata accounts for mints.
type Resolver struct {
	client chain.Client
}

func NewResolver(client chain.Client) *Resolver {
	return &Resolver{client: client}
}

// Resolve returns the metadata of mint. Missing accounts, accounts not owned
// by the metadata program and undecodable data are all reported as errors.
func (r *Resolver) Resolve(ctx context.Context, mint solana.PublicKey) (*types.MetaplexMetadata, error) {
	addr, _, err := FindMetadataAddress(mint)
	if err != nil {
		return nil, fmt.Errorf("%w: derive metadata address for %s: %w", types.ErrMalformed, mint, err)
	}

	acc, err := r.client.GetAccount(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !acc.Owner.Equals(types.METAPLEX_METADATA_PROGRAM_ID) {
		return nil, fmt.Errorf("%w: metadata %s is owned by %s", types.ErrWrongOwner, addr, acc.Owner)
	}

	md, err := DecodeMetadata(acc.Data)
	if err != nil {
		return nil, err
	}
	types.LoggerFrom(ctx).WithField("stage", "metaplex").Debugf("metadata %s: name=%q symbol=%q", addr, md.Name, md.Symbol)
	return md, nil
}
