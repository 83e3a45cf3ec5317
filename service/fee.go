package service

import (
	"math/big"

	"gorm.io/gorm"
	"market/common/types"
	"market/model"
)

// fee cap, 10% in basis points
const maxFeeBps = 1000

// SetMarketplaceFee changes the trade fee rate, market owner only. Applies to
// trades settled after the change; already escrowed amounts are not repriced.
func SetMarketplaceFee(caller types.Address, newBps uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		if market.Owner != caller {
			return ErrNotMarketOwner
		}
		if newBps > maxFeeBps {
			return ErrFeeTooHigh
		}
		market.FeeBps = newBps
		if err = t.Save(&market).Error; err != nil {
			return err
		}
		price := types.BigInt(new(big.Int).SetUint64(newBps).String())
		return appendEvent(t, &model.Event{Name: model.EventFeeUpdated, From: addrPtr(caller), Price: &price, Timestamp: now})
	})
}

// WithdrawFees pays the accumulated trade fees out to the market owner's
// balance and resets the accumulator, market owner only
func WithdrawFees(caller types.Address) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	return DB.Transaction(func(t *gorm.DB) error {
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		if market.Owner != caller {
			return ErrNotMarketOwner
		}
		fees := storedValue(market.AccumulatedFees)
		if fees.Sign() == 0 {
			return ErrNothingToWithdraw
		}
		if err = credit(t, market.Owner, fees); err != nil {
			return err
		}
		market.AccumulatedFees = "0"
		return t.Save(&market).Error
	})
}

// StatsRes aggregate market return parameters
type StatsRes struct {
	model.Market
	TotalNFT       int64 `json:"totalNFT"`       //The number of tokens minted
	ActiveListings int64 `json:"activeListings"` //The number of purchasable listings
	ActiveAuctions int64 `json:"activeAuctions"` //The number of auctions accepting bids
	ActiveOffers   int64 `json:"activeOffers"`   //The number of live offers
}

// GetMarketStats the market row plus live object counts
func GetMarketStats() (res StatsRes, err error) {
	now := nowFunc()
	if res.Market, err = getMarket(DB); err != nil {
		return
	}
	if err = DB.Model(&model.NFT{}).Count(&res.TotalNFT).Error; err != nil {
		return
	}
	if err = validListings(DB).Count(&res.ActiveListings).Error; err != nil {
		return
	}
	err = DB.Model(&model.Auction{}).Where("ended=? AND cancelled=? AND end_time>?", false, false, now).
		Count(&res.ActiveAuctions).Error
	if err != nil {
		return
	}
	err = DB.Model(&model.Offer{}).Where("active=? AND expiration_time>?", true, now).
		Count(&res.ActiveOffers).Error
	return
}
