package service

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"market/common/types"
	"market/conf"
	"market/model"
)

func TestCreateAuctionValidation(t *testing.T) {
	newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)

	_, err = CreateAuction(alice, 99, "100", "100", 3600)
	assert.Equal(t, ErrTokenNotFound, err)
	_, err = CreateAuction(bob, tokenId, "100", "100", 3600)
	assert.Equal(t, ErrNotTokenOwner, err)
	_, err = CreateAuction(alice, tokenId, "100", "100", 3600)
	assert.Equal(t, ErrNotApprovedMkt, err)

	require.NoError(t, Approve(alice, tokenId, conf.MarketAddr))
	_, err = CreateAuction(alice, tokenId, "0", "100", 3600)
	assert.Equal(t, ErrPriceZero, err)
	_, err = CreateAuction(alice, tokenId, "100", "99", 3600)
	assert.Equal(t, ErrReserveTooLow, err)
	_, err = CreateAuction(alice, tokenId, "100", "100", 3599)
	assert.Equal(t, ErrInvalidDuration, err)

	require.NoError(t, ListNFT(alice, tokenId, "500"))
	_, err = CreateAuction(alice, tokenId, "100", "100", 3600)
	assert.Equal(t, ErrAlreadyListed, err)
	require.NoError(t, CancelListing(alice, tokenId))

	_, err = CreateAuction(alice, tokenId, "100", "100", 3600)
	require.NoError(t, err)
	_, err = CreateAuction(alice, tokenId, "100", "100", 3600)
	assert.Equal(t, ErrTokenInAuction, err)
}

func TestAuctionLocksToken(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	_, err := CreateAuction(alice, tokenId, "100", "100", 3600)
	require.NoError(t, err)

	locked, err := IsInAuction(tokenId)
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, ErrTokenInAuction, Transfer(alice, tokenId, alice, bob))
	assert.Equal(t, ErrTokenInAuction, ListNFT(alice, tokenId, "500"))
	assert.Equal(t, ErrTokenInAuction, Approve(alice, tokenId, bob))
}

func TestPlaceBidValidation(t *testing.T) {
	setNow := newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)
	fund(t, alice, "1000")
	fund(t, bob, "1000")

	assert.Equal(t, ErrAuctionNotFound, PlaceBid(bob, 99, "100"))
	assert.Equal(t, ErrSelfBid, PlaceBid(alice, auctionId, "100"))
	assert.Equal(t, ErrBidTooLow, PlaceBid(bob, auctionId, "99"))
	assert.Equal(t, ErrBidTooLow, PlaceBid(bob, auctionId, "0"))

	require.NoError(t, PlaceBid(bob, auctionId, "100"))
	assert.Equal(t, "900", balance(t, bob))

	setNow(testStart + 3600)
	assert.Equal(t, ErrAuctionNotActive, PlaceBid(carol, auctionId, "200"))
}

func TestMinimumBidIncrement(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "10", "2000", 3600)
	require.NoError(t, err)

	minBid, err := GetMinimumBid(auctionId)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("10"), minBid)

	// 500 bps of 10 rounds to zero, the floor of one unit applies
	fund(t, bob, "5000")
	require.NoError(t, PlaceBid(bob, auctionId, "10"))
	minBid, err = GetMinimumBid(auctionId)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("11"), minBid)

	fund(t, carol, "5000")
	require.NoError(t, PlaceBid(carol, auctionId, "1000"))
	minBid, err = GetMinimumBid(auctionId)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("1050"), minBid)
	assert.Equal(t, ErrBidTooLow, PlaceBid(bob, auctionId, "1049"))
	require.NoError(t, PlaceBid(bob, auctionId, "1050"))
}

func TestOutbidRefundIsPulled(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)
	fund(t, bob, "1000")
	fund(t, carol, "1000")

	require.NoError(t, PlaceBid(bob, auctionId, "100"))
	require.NoError(t, PlaceBid(carol, auctionId, "300"))

	// the displaced bid waits for an explicit withdrawal
	assert.Equal(t, "900", balance(t, bob))
	pending, err := GetPendingReturns(auctionId, bob)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("100"), pending)

	require.NoError(t, WithdrawBid(bob, auctionId))
	assert.Equal(t, "1000", balance(t, bob))
	assert.Equal(t, ErrNothingToWithdraw, WithdrawBid(bob, auctionId))
	assert.Equal(t, ErrNothingToWithdraw, WithdrawBid(dave, auctionId))
}

func TestEndAuctionSettlement(t *testing.T) {
	setNow := newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)
	fund(t, bob, "1000")
	require.NoError(t, PlaceBid(bob, auctionId, "600"))

	assert.Equal(t, ErrAuctionStillActive, EndAuction(carol, auctionId))

	setNow(testStart + 3600)
	require.NoError(t, EndAuction(carol, auctionId))

	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	// 250 bps of 600
	assert.Equal(t, "585", balance(t, alice))
	assert.Equal(t, "400", balance(t, bob))

	stats, err := GetMarketStats()
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("15"), stats.AccumulatedFees)
	assert.Equal(t, types.BigInt("600"), stats.TotalVolume)

	assert.Equal(t, ErrAlreadyEnded, EndAuction(carol, auctionId))
	locked, err := IsInAuction(tokenId)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestEndAuctionReserveNotMet(t *testing.T) {
	setNow := newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)
	fund(t, bob, "1000")
	require.NoError(t, PlaceBid(bob, auctionId, "499"))

	setNow(testStart + 3600)
	require.NoError(t, EndAuction(carol, auctionId))

	// the token stays with the seller, the bid becomes withdrawable
	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	assert.Equal(t, "0", balance(t, alice))
	pending, err := GetPendingReturns(auctionId, bob)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("499"), pending)
	require.NoError(t, WithdrawBid(bob, auctionId))
	assert.Equal(t, "1000", balance(t, bob))
}

func TestEndAuctionReserveBoundary(t *testing.T) {
	setNow := newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)
	fund(t, bob, "1000")
	require.NoError(t, PlaceBid(bob, auctionId, "500"))

	setNow(testStart + 3600)
	require.NoError(t, EndAuction(carol, auctionId))

	// a bid exactly at the reserve settles
	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
}

func TestEndAuctionNoBids(t *testing.T) {
	setNow := newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)

	setNow(testStart + 3600)
	require.NoError(t, EndAuction(carol, auctionId))

	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
	locked, err := IsInAuction(tokenId)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestCancelAuction(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)

	assert.Equal(t, ErrNotSeller, CancelAuction(bob, auctionId))

	fund(t, bob, "1000")
	require.NoError(t, PlaceBid(bob, auctionId, "100"))
	assert.Equal(t, ErrBidsAlreadyPlaced, CancelAuction(alice, auctionId))
}

func TestCancelAuctionUnlocksToken(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)

	require.NoError(t, CancelAuction(alice, auctionId))
	assert.Equal(t, ErrAlreadyEnded, CancelAuction(alice, auctionId))

	locked, err := IsInAuction(tokenId)
	require.NoError(t, err)
	assert.False(t, locked)
	require.NoError(t, ListNFT(alice, tokenId, "500"))
}

// money already inside the ledger only moves between balances, escrow,
// pending returns and the fee accumulator
func TestAuctionConservation(t *testing.T) {
	setNow := newTestDB(t)
	tokenId := mintApproved(t, alice)
	auctionId, err := CreateAuction(alice, tokenId, "100", "500", 3600)
	require.NoError(t, err)
	fund(t, bob, "1000")
	fund(t, carol, "1000")
	require.NoError(t, PlaceBid(bob, auctionId, "100"))
	require.NoError(t, PlaceBid(carol, auctionId, "600"))

	setNow(testStart + 3600)
	require.NoError(t, EndAuction(dave, auctionId))
	require.NoError(t, WithdrawBid(bob, auctionId))

	total := new(big.Int)
	for _, addr := range []types.Address{alice, bob, carol} {
		b, err := GetBalance(addr)
		require.NoError(t, err)
		total.Add(total, b.T())
	}
	var market model.Market
	require.NoError(t, DB.Where("id=1").First(&market).Error)
	total.Add(total, market.AccumulatedFees.T())
	assert.Equal(t, "2000", total.String())
}
