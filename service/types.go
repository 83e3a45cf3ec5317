package service

import (
	"math/big"

	"market/common/types"
)

// ErrRes interface error message returned
type ErrRes struct {
	ErrStr string `json:"err_str"` //Error message
}

// feeDenominator fee basis, fees are expressed in ten-thousandths
var feeDenominator = big.NewInt(10000)

// parseValue parses an attached currency amount, ok only for positive integers
func parseValue(v types.BigInt) (*big.Int, bool) {
	b := v.T()
	if b == nil || b.Sign() < 1 {
		return nil, false
	}
	return b, true
}

// storedValue parses a ledger-written amount, zero when empty
func storedValue(v types.BigInt) *big.Int {
	b := v.T()
	if b == nil {
		return new(big.Int)
	}
	return b
}

func bigStr(b *big.Int) types.BigInt {
	return types.BigInt(b.Text(10))
}

func bigPtr(b *big.Int) *types.BigInt {
	s := bigStr(b)
	return &s
}

func addrPtr(a types.Address) *types.Address {
	return &a
}

// feeOf the marketplace cut of a settlement, floor(price*feeBps/10000)
func feeOf(price *big.Int, feeBps uint64) *big.Int {
	fee := new(big.Int).Mul(price, new(big.Int).SetUint64(feeBps))
	return fee.Div(fee, feeDenominator)
}
