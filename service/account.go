package service

import (
	"math/big"

	"gorm.io/gorm"
	"market/common/types"
	"market/model"
)

// Deposit tops up the spendable balance of an address. Value attached to
// operations is always drawn from this balance.
func Deposit(addr types.Address, amount types.BigInt) error {
	value, ok := parseValue(amount)
	if !ok {
		return ErrAmountZero
	}
	stateMu.Lock()
	defer stateMu.Unlock()
	return DB.Transaction(func(t *gorm.DB) error {
		return credit(t, addr, value)
	})
}

// Withdraw pays out part of the spendable balance to the external payment layer
func Withdraw(addr types.Address, amount types.BigInt) error {
	value, ok := parseValue(amount)
	if !ok {
		return ErrAmountZero
	}
	stateMu.Lock()
	defer stateMu.Unlock()
	return DB.Transaction(func(t *gorm.DB) error {
		return debit(t, addr, value)
	})
}

// GetBalance the spendable balance of an address, zero for unknown accounts
func GetBalance(addr types.Address) (types.BigInt, error) {
	var account model.Account
	err := DB.Where("address=?", addr).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return account.Balance, nil
}

// credit adds amount to the balance of addr, creating the account row on first use
func credit(t *gorm.DB, addr types.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	var account model.Account
	err := t.Where("address=?", addr).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		return t.Create(&model.Account{Address: addr, Balance: bigStr(amount)}).Error
	}
	if err != nil {
		return err
	}
	account.Balance = bigStr(new(big.Int).Add(storedValue(account.Balance), amount))
	return t.Save(&account).Error
}

// debit removes amount from the balance of addr, failing without effect when
// the balance does not cover it
func debit(t *gorm.DB, addr types.Address, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	var account model.Account
	err := t.Where("address=?", addr).First(&account).Error
	if err == gorm.ErrRecordNotFound {
		return ErrInsufficientBalance
	}
	if err != nil {
		return err
	}
	balance := storedValue(account.Balance)
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	account.Balance = bigStr(balance.Sub(balance, amount))
	return t.Save(&account).Error
}
