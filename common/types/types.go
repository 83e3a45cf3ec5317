// Package types string-backed scalar types shared by the ledger tables and API
package types

import (
	"fmt"
	"math/big"
	"strconv"
)

// Address hexadecimal account address with 0x prefix, always lowercase, 42 characters
type Address string

// ZeroAddress the null account, transfers to it are rejected and it never owns assets
const ZeroAddress = Address("0x0000000000000000000000000000000000000000")

// UnmarshalJSON implements json.Unmarshaler.
func (a *Address) UnmarshalJSON(input []byte) error {
	if len(input) < 2 || input[0] != '"' {
		return fmt.Errorf("unexpected value %s for Address", input)
	}
	*a = Address(input[1 : len(input)-1])
	return nil
}

// Hash hexadecimal hash value with 0x prefix, 66 characters
type Hash string

// BigInt decimal string of a non-negative big integer, the smallest currency unit
type BigInt string

// T returns the underlying big number (nil on illegal input)
func (b BigInt) T() *big.Int {
	if b == "" {
		return new(big.Int)
	}
	t, ok := new(big.Int).SetString(string(b), 10)
	if !ok {
		return nil
	}
	return t
}

// UnmarshalJSON implements json.Unmarshaler, accepting both quoted and bare numbers.
func (b *BigInt) UnmarshalJSON(input []byte) error {
	if len(input) > 1 && input[0] == '"' {
		input = input[1 : len(input)-1]
	}
	*b = BigInt(input)
	return nil
}

type Uint64 uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint64) UnmarshalJSON(input []byte) error {
	if len(input) > 1 && input[0] == '"' {
		input = input[1 : len(input)-1]
	}
	value, err := strconv.ParseUint(string(input), 0, 64)
	*u = Uint64(value)
	return err
}
