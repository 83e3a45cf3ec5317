package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"market/common/types"
	"market/conf"
)

const (
	alice = types.Address("0x1111111111111111111111111111111111111111")
	bob   = types.Address("0x2222222222222222222222222222222222222222")
	carol = types.Address("0x3333333333333333333333333333333333333333")
	dave  = types.Address("0x4444444444444444444444444444444444444444")
)

const testStart = uint64(1700000000)

// newTestDB installs a fresh store and a frozen clock, returns the clock setter
func newTestDB(t *testing.T) func(uint64) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "market.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, SetDB(db))

	nowFunc = func() uint64 { return testStart }
	t.Cleanup(func() {
		nowFunc = func() uint64 { return testStart }
	})
	return func(now uint64) {
		nowFunc = func() uint64 { return now }
	}
}

func fund(t *testing.T, addr types.Address, amount string) {
	require.NoError(t, Deposit(addr, types.BigInt(amount)))
}

func balance(t *testing.T, addr types.Address) string {
	b, err := GetBalance(addr)
	require.NoError(t, err)
	return string(b)
}

// mintApproved mints a token for owner and grants the marketplace its approval
func mintApproved(t *testing.T, owner types.Address) uint64 {
	tokenId, err := Mint(owner, owner, "ipfs://meta")
	require.NoError(t, err)
	require.NoError(t, Approve(owner, tokenId, conf.MarketAddr))
	return tokenId
}
