package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"market/common/types"
	"market/conf"
)

func TestMakeOfferValidation(t *testing.T) {
	newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)
	fund(t, bob, "1000")

	_, err = MakeOffer(bob, 99, 3600, "100")
	assert.Equal(t, ErrTokenNotFound, err)
	_, err = MakeOffer(alice, tokenId, 3600, "100")
	assert.Equal(t, ErrSelfOffer, err)
	_, err = MakeOffer(bob, tokenId, 3600, "0")
	assert.Equal(t, ErrPriceZero, err)
	_, err = MakeOffer(bob, tokenId, 3599, "100")
	assert.Equal(t, ErrInvalidExpiration, err)
	_, err = MakeOffer(bob, tokenId, 3600, "2000")
	assert.Equal(t, ErrInsufficientBalance, err)

	_, err = MakeOffer(bob, tokenId, 3600, "100")
	require.NoError(t, err)
	_, err = MakeOffer(bob, tokenId, 3600, "200")
	assert.Equal(t, ErrOfferAlreadyActive, err)
}

func TestOfferRoundTrip(t *testing.T) {
	newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)
	fund(t, bob, "1000")

	offerId, err := MakeOffer(bob, tokenId, 3600, "400")
	require.NoError(t, err)
	assert.Equal(t, "600", balance(t, bob))

	assert.Equal(t, ErrNotOfferer, CancelOffer(carol, offerId))
	require.NoError(t, CancelOffer(bob, offerId))
	assert.Equal(t, "1000", balance(t, bob))
	assert.Equal(t, ErrOfferNotActive, CancelOffer(bob, offerId))

	offer, err := GetOffer(offerId)
	require.NoError(t, err)
	assert.False(t, offer.Active)
	assert.False(t, offer.Accepted)

	// a cancelled offer no longer blocks a new one
	_, err = MakeOffer(bob, tokenId, 3600, "500")
	require.NoError(t, err)
}

func TestAcceptOffer(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	fund(t, bob, "1000")
	offerId, err := MakeOffer(bob, tokenId, 3600, "1000")
	require.NoError(t, err)

	assert.Equal(t, ErrNotTokenOwner, AcceptOffer(carol, offerId))
	require.NoError(t, AcceptOffer(alice, offerId))

	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	// 250 bps of 1000
	assert.Equal(t, "975", balance(t, alice))
	assert.Equal(t, "0", balance(t, bob))

	offer, err := GetOffer(offerId)
	require.NoError(t, err)
	assert.False(t, offer.Active)
	assert.True(t, offer.Accepted)
	assert.Equal(t, ErrOfferNotActive, AcceptOffer(alice, offerId))

	stats, err := GetMarketStats()
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("25"), stats.AccumulatedFees)
	assert.Equal(t, types.BigInt("1000"), stats.TotalVolume)
}

func TestAcceptOfferPreconditions(t *testing.T) {
	setNow := newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)
	fund(t, bob, "1000")
	offerId, err := MakeOffer(bob, tokenId, 3600, "100")
	require.NoError(t, err)

	// no marketplace approval, the transfer could not be executed
	assert.Equal(t, ErrNotApprovedMkt, AcceptOffer(alice, offerId))

	require.NoError(t, Approve(alice, tokenId, conf.MarketAddr))
	auctionId, err := CreateAuction(alice, tokenId, "100", "100", 3600)
	require.NoError(t, err)
	assert.Equal(t, ErrTokenInAuction, AcceptOffer(alice, offerId))
	require.NoError(t, CancelAuction(alice, auctionId))

	setNow(testStart + 3600)
	assert.Equal(t, ErrOfferExpired, AcceptOffer(alice, offerId))
}

func TestUpdateOffer(t *testing.T) {
	setNow := newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)
	fund(t, bob, "1000")
	offerId, err := MakeOffer(bob, tokenId, 3600, "100")
	require.NoError(t, err)
	assert.Equal(t, "900", balance(t, bob))

	assert.Equal(t, ErrNotOfferer, UpdateOffer(carol, offerId, "150"))
	assert.Equal(t, ErrPriceZero, UpdateOffer(bob, offerId, "0"))

	// raising draws the difference from the balance
	require.NoError(t, UpdateOffer(bob, offerId, "150"))
	assert.Equal(t, "850", balance(t, bob))
	// lowering refunds it
	require.NoError(t, UpdateOffer(bob, offerId, "80"))
	assert.Equal(t, "920", balance(t, bob))

	offer, err := GetOffer(offerId)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("80"), offer.Price)

	setNow(testStart + 3600)
	assert.Equal(t, ErrOfferExpired, UpdateOffer(bob, offerId, "200"))
}

func TestWithdrawExpiredOffer(t *testing.T) {
	setNow := newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)
	fund(t, bob, "1000")
	offerId, err := MakeOffer(bob, tokenId, 3600, "300")
	require.NoError(t, err)

	assert.Equal(t, ErrOfferNotExpired, WithdrawExpiredOffer(carol, offerId))

	setNow(testStart + 3600)
	ids, err := ExpiredOffers()
	require.NoError(t, err)
	assert.Equal(t, []uint64{offerId}, ids)

	// anyone may release a lapsed escrow, the money goes to the offerer
	require.NoError(t, WithdrawExpiredOffer(carol, offerId))
	assert.Equal(t, "1000", balance(t, bob))
	assert.Equal(t, "0", balance(t, carol))
	assert.Equal(t, ErrOfferNotActive, WithdrawExpiredOffer(carol, offerId))

	// the slot is free again
	_, err = MakeOffer(bob, tokenId, 3600, "100")
	require.NoError(t, err)
}

func TestOfferReads(t *testing.T) {
	setNow := newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)
	fund(t, bob, "1000")
	fund(t, carol, "1000")

	bobOffer, err := MakeOffer(bob, tokenId, 3600, "100")
	require.NoError(t, err)
	carolOffer, err := MakeOffer(carol, tokenId, 7200, "250")
	require.NoError(t, err)

	res, err := FetchOffersForToken(tokenId, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	highest, err := GetHighestOffer(tokenId)
	require.NoError(t, err)
	assert.Equal(t, carolOffer, highest.OfferId)

	active, offerId, err := HasActiveOffer(tokenId, bob)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Equal(t, bobOffer, offerId)
	active, _, err = HasActiveOffer(tokenId, dave)
	require.NoError(t, err)
	assert.False(t, active)

	byUser, err := FetchOffersByUser(bob, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byUser.Total)

	// bob's offer lapses, carol's longer one survives
	setNow(testStart + 3600)
	res, err = FetchOffersForToken(tokenId, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	highest, err = GetHighestOffer(tokenId)
	require.NoError(t, err)
	assert.Equal(t, carolOffer, highest.OfferId)
	active, _, err = HasActiveOffer(tokenId, bob)
	require.NoError(t, err)
	assert.False(t, active)

	setNow(testStart + 7200)
	_, err = GetHighestOffer(tokenId)
	assert.Equal(t, ErrOfferNotFound, err)
}
