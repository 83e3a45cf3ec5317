package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepositWithdraw(t *testing.T) {
	newTestDB(t)

	assert.Equal(t, "0", balance(t, alice))
	assert.Equal(t, ErrAmountZero, Deposit(alice, "0"))
	assert.Equal(t, ErrAmountZero, Deposit(alice, "-5"))
	assert.Equal(t, ErrAmountZero, Deposit(alice, "abc"))

	require.NoError(t, Deposit(alice, "1000"))
	require.NoError(t, Deposit(alice, "500"))
	assert.Equal(t, "1500", balance(t, alice))

	assert.Equal(t, ErrInsufficientBalance, Withdraw(alice, "1501"))
	assert.Equal(t, ErrInsufficientBalance, Withdraw(bob, "1"))
	require.NoError(t, Withdraw(alice, "1500"))
	assert.Equal(t, "0", balance(t, alice))
}
