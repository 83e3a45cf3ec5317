package service

import (
	"math/big"

	"gorm.io/gorm"
	"market/common/types"
	"market/conf"
	"market/model"
)

// ListNFT puts a token up for sale at a fixed price. The caller must own the
// token, the marketplace must hold its transfer approval and the token must
// not be listed already or locked in an auction.
func ListNFT(caller types.Address, tokenId uint64, price types.BigInt) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		nft, err := getNFT(t, tokenId)
		if err != nil {
			return err
		}
		if nft.Owner != caller {
			return ErrNotTokenOwner
		}
		if _, ok := parseValue(price); !ok {
			return ErrPriceZero
		}
		if !marketApproved(&nft) {
			return ErrNotApprovedMkt
		}
		var listing model.Listing
		err = t.Where("token_id=?", tokenId).First(&listing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		// a leftover listing of a previous owner is stale, not a conflict
		if err == nil && listing.Active && listing.Seller == nft.Owner {
			return ErrAlreadyListed
		}
		locked, err := tokenInAuction(t, tokenId)
		if err != nil {
			return err
		}
		if locked {
			return ErrTokenInAuction
		}
		listing = model.Listing{TokenId: tokenId, Seller: caller, Price: price, Active: true, Timestamp: now}
		if err = t.Save(&listing).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventListed, TokenId: tokenId, From: addrPtr(caller), Price: &price, Timestamp: now})
	})
}

// BuyNFT purchases a listed token. The attached value must cover the asking
// price; the excess is returned to the buyer in the same atomic step. The
// seller is paid the price minus the marketplace fee.
func BuyNFT(caller types.Address, tokenId uint64, value types.BigInt) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		var listing model.Listing
		err := t.Where("token_id=? AND active=?", tokenId, true).First(&listing).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotListed
		}
		if err != nil {
			return err
		}
		nft, err := getNFT(t, tokenId)
		if err != nil {
			return err
		}
		// the listing died with the seller's ownership or approval
		if nft.Owner != listing.Seller || !marketApproved(&nft) {
			return ErrNotListed
		}
		if caller == listing.Seller {
			return ErrSelfPurchase
		}
		price := storedValue(listing.Price)
		attached, ok := parseValue(value)
		if !ok || attached.Cmp(price) < 0 {
			return ErrInsufficientPayment
		}
		if err = debit(t, caller, attached); err != nil {
			return err
		}
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		fee := feeOf(price, market.FeeBps)
		proceeds := new(big.Int).Sub(price, fee)
		if err = credit(t, listing.Seller, proceeds); err != nil {
			return err
		}
		market.AccumulatedFees = bigStr(new(big.Int).Add(storedValue(market.AccumulatedFees), fee))
		market.TotalVolume = bigStr(new(big.Int).Add(storedValue(market.TotalVolume), price))
		market.TotalFees = bigStr(new(big.Int).Add(storedValue(market.TotalFees), fee))
		seller := listing.Seller
		if err = transferAsset(t, &market, &nft, caller, model.TradeTypeSale, price, fee, now); err != nil {
			return err
		}
		if err = t.Save(&market).Error; err != nil {
			return err
		}
		// return the overpayment
		if err = credit(t, caller, new(big.Int).Sub(attached, price)); err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventSold, TokenId: tokenId, From: addrPtr(seller), To: addrPtr(caller), Price: bigPtr(price), Timestamp: now})
	})
}

// CancelListing takes a token off sale, seller only
func CancelListing(caller types.Address, tokenId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		var listing model.Listing
		err := t.Where("token_id=? AND active=?", tokenId, true).First(&listing).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotListed
		}
		if err != nil {
			return err
		}
		if listing.Seller != caller {
			return ErrNotSeller
		}
		listing.Active = false
		if err = t.Save(&listing).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventListingCancelled, TokenId: tokenId, From: addrPtr(caller), Timestamp: now})
	})
}

// UpdatePrice replaces the asking price of an active listing, seller only
func UpdatePrice(caller types.Address, tokenId uint64, newPrice types.BigInt) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		var listing model.Listing
		err := t.Where("token_id=? AND active=?", tokenId, true).First(&listing).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNotListed
		}
		if err != nil {
			return err
		}
		if listing.Seller != caller {
			return ErrNotSeller
		}
		if _, ok := parseValue(newPrice); !ok {
			return ErrPriceZero
		}
		listing.Price = newPrice
		if err = t.Save(&listing).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventPriceUpdated, TokenId: tokenId, From: addrPtr(caller), Price: &newPrice, Timestamp: now})
	})
}

// validListings active listings whose seller still owns the token and whose
// approval still names the marketplace; stale rows are invisible to readers
func validListings(db *gorm.DB) *gorm.DB {
	return db.Model(&model.Listing{}).
		Joins("JOIN nfts ON nfts.token_id = listings.token_id AND nfts.owner = listings.seller AND nfts.approved = ?", conf.MarketAddr).
		Where("listings.active = ?", true)
}

// ListingsRes listing paging return parameters
type ListingsRes struct {
	Total    int64           `json:"total"`    //The total number of active listings
	Listings []model.Listing `json:"listings"` //Listing list, creation order
}

// FetchListings pages the currently purchasable listings in creation order
func FetchListings(page, size int) (res ListingsRes, err error) {
	err = validListings(DB).Count(&res.Total).Error
	if err != nil {
		return
	}
	err = validListings(DB).Order("listings.timestamp, listings.token_id").
		Offset((page - 1) * size).Limit(size).Select("listings.*").Find(&res.Listings).Error
	return
}

// GetListingCount the number of currently purchasable listings
func GetListingCount() (count int64, err error) {
	err = validListings(DB).Count(&count).Error
	return
}

// GetNFTListing the active listing of one token; stale listings read as absent
func GetNFTListing(tokenId uint64) (listing model.Listing, err error) {
	err = DB.Where("token_id=? AND active=?", tokenId, true).First(&listing).Error
	if err == gorm.ErrRecordNotFound {
		return listing, ErrNotListed
	}
	if err != nil {
		return
	}
	nft, err := getNFT(DB, tokenId)
	if err != nil {
		return
	}
	if nft.Owner != listing.Seller || !marketApproved(&nft) {
		return model.Listing{}, ErrNotListed
	}
	return
}
