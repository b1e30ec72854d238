package metaplex

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/franco-bianco/solana-lp-resolver/types"
)

// Fixed slot sizes of the Data strings. The u32 prefix gives the used
// length; the slot is always fully reserved.
const (
	nameSlot   = 32
	symbolSlot = 10
	uriSlot    = 200

	// key + update authority + mint + three prefixed slots + seller fee
	MinMetadataSize = 1 + 32 + 32 + (4 + nameSlot) + (4 + symbolSlot) + (4 + uriSlot) + 2
)

// DecodeMetadata reads the fixed-layout head of a Token Metadata account.
func DecodeMetadata(data []byte) (*types.MetaplexMetadata, error) {
	if len(data) < MinMetadataSize {
		return nil, fmt.Errorf("%w: metadata account is %d bytes, need %d", types.ErrMalformed, len(data), MinMetadataSize)
	}
	dec := bin.NewBorshDecoder(data)

	if _, err := dec.ReadByte(); err != nil {
		return nil, malformed("key", err)
	}
	updateAuthority, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, malformed("update authority", err)
	}
	mint, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, malformed("mint", err)
	}

	md := &types.MetaplexMetadata{
		UpdateAuthority: solana.PublicKeyFromBytes(updateAuthority),
		Mint:            solana.PublicKeyFromBytes(mint),
	}
	if md.Name, err = readSlot(dec, nameSlot); err != nil {
		return nil, malformed("name", err)
	}
	if md.Symbol, err = readSlot(dec, symbolSlot); err != nil {
		return nil, malformed("symbol", err)
	}
	if md.URI, err = readSlot(dec, uriSlot); err != nil {
		return nil, malformed("uri", err)
	}
	if md.SellerFeeBasisPoints, err = dec.ReadUint16(bin.LE); err != nil {
		return nil, malformed("seller fee", err)
	}
	return md, nil
}

// readSlot reads a u32 length followed by a slot of fixed size. Declared
// lengths beyond the slot are clamped.
func readSlot(dec *bin.Decoder, slot int) (string, error) {
	n, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return "", err
	}
	raw, err := dec.ReadNBytes(slot)
	if err != nil {
		return "", err
	}
	if int(n) < slot {
		raw = raw[:n]
	}
	raw = bytes.TrimRight(raw, "\x00")
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("invalid utf-8")
	}
	return string(raw), nil
}

func malformed(field string, err error) error {
	return fmt.Errorf("%w: metadata %s: %w", types.ErrMalformed, field, err)
}
