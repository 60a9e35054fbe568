package instruction

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/vitwit/splitpay/types"
)

// DispatchAmounts is the argument struct of dispatch-usdc. Field order and
// widths are fixed by the on-chain program.
type DispatchAmounts struct {
	Merchant    uint64
	BuyBack     uint64
	TaxReceiver uint64
	Rewards     uint64
}

// NewDispatchAmounts converts split shares into instruction arguments.
func NewDispatchAmounts(a types.SplitAmounts) DispatchAmounts {
	return DispatchAmounts{
		Merchant:    a.Merchant,
		BuyBack:     a.BuyBack,
		TaxReceiver: a.TaxReceiver,
		Rewards:     a.Rewards,
	}
}

// SplitAmounts converts the arguments back into split shares.
func (obj DispatchAmounts) SplitAmounts() types.SplitAmounts {
	return types.SplitAmounts{
		Merchant:    obj.Merchant,
		BuyBack:     obj.BuyBack,
		TaxReceiver: obj.TaxReceiver,
		Rewards:     obj.Rewards,
	}
}

func (obj DispatchAmounts) MarshalWithEncoder(encoder *bin.Encoder) (err error) {
	for _, v := range []uint64{obj.Merchant, obj.BuyBack, obj.TaxReceiver, obj.Rewards} {
		if err = encoder.WriteUint64(v, binary.LittleEndian); err != nil {
			return err
		}
	}
	return nil
}

func (obj *DispatchAmounts) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	for _, dst := range []*uint64{&obj.Merchant, &obj.BuyBack, &obj.TaxReceiver, &obj.Rewards} {
		if *dst, err = decoder.ReadUint64(binary.LittleEndian); err != nil {
			return err
		}
	}
	return nil
}

// EncodeDispatchData serialises the discriminator followed by amounts.
func EncodeDispatchData(amounts DispatchAmounts) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, DispatchUsdcDataSize))
	buf.Write(DispatchUsdcDiscriminator[:])

	if err := bin.NewBorshEncoder(buf).Encode(amounts); err != nil {
		return nil, types.NewError(types.ErrEncoding, "encode dispatch amounts", err)
	}

	if buf.Len() != DispatchUsdcDataSize {
		return nil, types.Errorf(types.ErrEncoding, "dispatch payload is %d bytes, want %d", buf.Len(), DispatchUsdcDataSize)
	}
	return buf.Bytes(), nil
}

// DecodeDispatchData parses a dispatch-usdc payload.
func DecodeDispatchData(data []byte) (DispatchAmounts, error) {
	var amounts DispatchAmounts

	if len(data) != DispatchUsdcDataSize {
		return amounts, types.Errorf(types.ErrEncoding, "dispatch payload is %d bytes, want %d", len(data), DispatchUsdcDataSize)
	}
	if !bytes.Equal(data[:len(DispatchUsdcDiscriminator)], DispatchUsdcDiscriminator[:]) {
		return amounts, types.Errorf(types.ErrEncoding, "unexpected discriminator %v", data[:len(DispatchUsdcDiscriminator)])
	}

	if err := bin.NewBorshDecoder(data[len(DispatchUsdcDiscriminator):]).Decode(&amounts); err != nil {
		return amounts, types.NewError(types.ErrEncoding, "decode dispatch amounts", err)
	}
	return amounts, nil
}

func (obj DispatchAmounts) String() string {
	return fmt.Sprintf("merchant=%d buyBack=%d taxReceiver=%d rewards=%d", obj.Merchant, obj.BuyBack, obj.TaxReceiver, obj.Rewards)
}
