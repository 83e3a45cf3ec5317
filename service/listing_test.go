package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"market/common/types"
	"market/conf"
	"market/model"
)

func TestListValidation(t *testing.T) {
	newTestDB(t)
	tokenId, err := Mint(alice, alice, "ipfs://meta")
	require.NoError(t, err)

	assert.Equal(t, ErrTokenNotFound, ListNFT(alice, 99, "100"))
	assert.Equal(t, ErrNotTokenOwner, ListNFT(bob, tokenId, "100"))
	assert.Equal(t, ErrPriceZero, ListNFT(alice, tokenId, "0"))
	assert.Equal(t, ErrNotApprovedMkt, ListNFT(alice, tokenId, "100"))

	require.NoError(t, Approve(alice, tokenId, conf.MarketAddr))
	require.NoError(t, ListNFT(alice, tokenId, "100"))
	assert.Equal(t, ErrAlreadyListed, ListNFT(alice, tokenId, "200"))
}

func TestBuyFeeSplit(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000000000000000000"))
	fund(t, bob, "1000000000000000000")

	require.NoError(t, BuyNFT(bob, tokenId, "1000000000000000000"))

	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, bob, owner)
	// 250 bps of 1e18
	assert.Equal(t, "975000000000000000", balance(t, alice))
	assert.Equal(t, "0", balance(t, bob))

	stats, err := GetMarketStats()
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("25000000000000000"), stats.AccumulatedFees)
	assert.Equal(t, types.BigInt("1000000000000000000"), stats.TotalVolume)
	assert.Equal(t, types.BigInt("25000000000000000"), stats.TotalFees)
	assert.Equal(t, int64(0), stats.ActiveListings)

	_, err = GetNFTListing(tokenId)
	assert.Equal(t, ErrNotListed, err)
}

func TestBuyRefundsExcess(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000"))
	fund(t, bob, "2000")

	require.NoError(t, BuyNFT(bob, tokenId, "1500"))

	// only the asking price is spent
	assert.Equal(t, "1000", balance(t, bob))
	assert.Equal(t, "975", balance(t, alice))
}

func TestBuyValidation(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000"))
	fund(t, bob, "500")

	assert.Equal(t, ErrNotListed, BuyNFT(bob, 99, "1000"))
	assert.Equal(t, ErrSelfPurchase, BuyNFT(alice, tokenId, "1000"))
	assert.Equal(t, ErrInsufficientPayment, BuyNFT(bob, tokenId, "999"))
	// covers the price but not the escrow
	assert.Equal(t, ErrInsufficientBalance, BuyNFT(bob, tokenId, "1000"))

	assert.Equal(t, "500", balance(t, bob))
	owner, err := OwnerOf(tokenId)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)
}

func TestCancelListing(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000"))

	assert.Equal(t, ErrNotSeller, CancelListing(bob, tokenId))
	require.NoError(t, CancelListing(alice, tokenId))
	assert.Equal(t, ErrNotListed, CancelListing(alice, tokenId))

	fund(t, bob, "1000")
	assert.Equal(t, ErrNotListed, BuyNFT(bob, tokenId, "1000"))
}

func TestUpdatePrice(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000"))

	assert.Equal(t, ErrNotSeller, UpdatePrice(bob, tokenId, "2000"))
	assert.Equal(t, ErrPriceZero, UpdatePrice(alice, tokenId, "0"))
	require.NoError(t, UpdatePrice(alice, tokenId, "2000"))

	listing, err := GetNFTListing(tokenId)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("2000"), listing.Price)

	fund(t, bob, "2000")
	require.NoError(t, BuyNFT(bob, tokenId, "2000"))
}

func TestRevokedApprovalHidesListing(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000"))

	require.NoError(t, Approve(alice, tokenId, types.ZeroAddress))

	_, err := GetNFTListing(tokenId)
	assert.Equal(t, ErrNotListed, err)
	count, err := GetListingCount()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
	res, err := FetchListings(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Total)

	fund(t, bob, "1000")
	assert.Equal(t, ErrNotListed, BuyNFT(bob, tokenId, "1000"))

	// re-approving revives the listing unchanged
	require.NoError(t, Approve(alice, tokenId, conf.MarketAddr))
	listing, err := GetNFTListing(tokenId)
	require.NoError(t, err)
	assert.Equal(t, types.BigInt("1000"), listing.Price)
}

func TestListingEventFeed(t *testing.T) {
	newTestDB(t)
	tokenId := mintApproved(t, alice)
	require.NoError(t, ListNFT(alice, tokenId, "1000"))
	require.NoError(t, UpdatePrice(alice, tokenId, "2000"))
	fund(t, bob, "2000")
	require.NoError(t, BuyNFT(bob, tokenId, "2000"))

	res, err := FetchEvents(tokenId, 1, 10)
	require.NoError(t, err)
	names := make([]string, 0, len(res.Events))
	for _, e := range res.Events {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{model.EventMinted, model.EventListed, model.EventPriceUpdated, model.EventSold}, names)
}
