package service

import (
	"math/big"

	"gorm.io/gorm"
	"market/common/types"
	"market/conf"
	"market/model"
)

// auctionActive not terminated and not past its deadline, bids are accepted
func auctionActive(a *model.Auction, now uint64) bool {
	return !a.Ended && !a.Cancelled && now < a.EndTime
}

// tokenInAuction the token is locked: an auction over it exists that has not
// reached a terminal state. The lock covers the gap between the deadline and
// the endAuction call so settlement can always complete.
func tokenInAuction(t *gorm.DB, tokenId uint64) (bool, error) {
	var count int64
	err := t.Model(&model.Auction{}).
		Where("token_id=? AND ended=? AND cancelled=?", tokenId, false, false).Count(&count).Error
	return count > 0, err
}

func getAuction(t *gorm.DB, auctionId uint64) (auction model.Auction, err error) {
	err = t.Where("auction_id=?", auctionId).First(&auction).Error
	if err == gorm.ErrRecordNotFound {
		err = ErrAuctionNotFound
	}
	return
}

// minimumBid the lowest acceptable next bid: the starting price until a bid
// exists, afterwards the highest bid plus minIncrementBps of it (at least one
// unit, so stalling with equal bids is impossible even at tiny amounts)
func minimumBid(a *model.Auction) *big.Int {
	if a.HighestBidder == nil {
		return storedValue(a.StartingPrice)
	}
	highest := storedValue(a.HighestBid)
	inc := new(big.Int).Mul(highest, new(big.Int).SetUint64(conf.MinIncrementBps))
	inc.Div(inc, feeDenominator)
	if inc.Sign() == 0 {
		inc.SetInt64(1)
	}
	return inc.Add(inc, highest)
}

// CreateAuction opens a time-boxed English auction over a token and locks the
// token until the auction terminates. Requires ownership, marketplace
// approval, and that the token is neither listed nor already in an auction.
func CreateAuction(caller types.Address, tokenId uint64, startingPrice, reservePrice types.BigInt, duration uint64) (auctionId uint64, err error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	err = DB.Transaction(func(t *gorm.DB) error {
		nft, err := getNFT(t, tokenId)
		if err != nil {
			return err
		}
		if nft.Owner != caller {
			return ErrNotTokenOwner
		}
		if !marketApproved(&nft) {
			return ErrNotApprovedMkt
		}
		starting, ok := parseValue(startingPrice)
		if !ok {
			return ErrPriceZero
		}
		reserve, ok := parseValue(reservePrice)
		if !ok || reserve.Cmp(starting) < 0 {
			return ErrReserveTooLow
		}
		if duration < conf.MinAuctionDuration {
			return ErrInvalidDuration
		}
		locked, err := tokenInAuction(t, tokenId)
		if err != nil {
			return err
		}
		if locked {
			return ErrTokenInAuction
		}
		var listing model.Listing
		err = t.Where("token_id=? AND active=?", tokenId, true).First(&listing).Error
		if err == nil && listing.Seller == nft.Owner {
			return ErrAlreadyListed
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		auction := model.Auction{
			TokenId:       tokenId,
			Seller:        caller,
			StartingPrice: startingPrice,
			ReservePrice:  reservePrice,
			HighestBid:    "0",
			StartTime:     now,
			EndTime:       now + duration,
		}
		if err = t.Create(&auction).Error; err != nil {
			return err
		}
		auctionId = auction.AuctionId
		return appendEvent(t, &model.Event{Name: model.EventAuctionCreated, TokenId: tokenId, SubjectId: auction.AuctionId, From: addrPtr(caller), Price: &startingPrice, Timestamp: now})
	})
	return
}

// PlaceBid escrows the attached value as the new highest bid. The displaced
// bid is never pushed back: it moves to the previous bidder's withdrawable
// balance, so a hostile recipient can never block bidding.
func PlaceBid(caller types.Address, auctionId uint64, value types.BigInt) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		auction, err := getAuction(t, auctionId)
		if err != nil {
			return err
		}
		if !auctionActive(&auction, now) {
			return ErrAuctionNotActive
		}
		if caller == auction.Seller {
			return ErrSelfBid
		}
		attached, ok := parseValue(value)
		if !ok || attached.Cmp(minimumBid(&auction)) < 0 {
			return ErrBidTooLow
		}
		if err = debit(t, caller, attached); err != nil {
			return err
		}
		if auction.HighestBidder != nil {
			if err = pendingAdd(t, auctionId, *auction.HighestBidder, storedValue(auction.HighestBid)); err != nil {
				return err
			}
		}
		auction.HighestBid = value
		auction.HighestBidder = addrPtr(caller)
		if err = t.Save(&auction).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventBidPlaced, TokenId: auction.TokenId, SubjectId: auctionId, From: addrPtr(caller), Price: &value, Timestamp: now})
	})
}

// pendingAdd credits a displaced bid to the bidder's per-auction withdrawable balance
func pendingAdd(t *gorm.DB, auctionId uint64, bidder types.Address, amount *big.Int) error {
	var pending model.AuctionBid
	err := t.Where("auction_id=? AND bidder=?", auctionId, bidder).First(&pending).Error
	if err == gorm.ErrRecordNotFound {
		return t.Create(&model.AuctionBid{AuctionId: auctionId, Bidder: bidder, Amount: bigStr(amount)}).Error
	}
	if err != nil {
		return err
	}
	pending.Amount = bigStr(new(big.Int).Add(storedValue(pending.Amount), amount))
	return t.Save(&pending).Error
}

// EndAuction finalizes an expired auction. Callable by anyone, so an auction
// can always be settled. If the reserve was met the token and money change
// hands; otherwise the token stays with the seller and the highest bid becomes
// withdrawable by its bidder.
func EndAuction(caller types.Address, auctionId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		auction, err := getAuction(t, auctionId)
		if err != nil {
			return err
		}
		if auction.Ended || auction.Cancelled {
			return ErrAlreadyEnded
		}
		if now < auction.EndTime {
			return ErrAuctionStillActive
		}
		auction.Ended = true
		if err = t.Save(&auction).Error; err != nil {
			return err
		}
		if auction.HighestBidder == nil {
			return appendEvent(t, &model.Event{Name: model.EventAuctionEnded, TokenId: auction.TokenId, SubjectId: auctionId, From: addrPtr(auction.Seller), Timestamp: now})
		}
		bid := storedValue(auction.HighestBid)
		bidder := *auction.HighestBidder
		if bid.Cmp(storedValue(auction.ReservePrice)) < 0 {
			// reserve not met, the bid becomes withdrawable
			if err = pendingAdd(t, auctionId, bidder, bid); err != nil {
				return err
			}
			return appendEvent(t, &model.Event{Name: model.EventAuctionEnded, TokenId: auction.TokenId, SubjectId: auctionId, From: addrPtr(auction.Seller), Price: bigPtr(bid), Timestamp: now})
		}
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		fee := feeOf(bid, market.FeeBps)
		if err = credit(t, auction.Seller, new(big.Int).Sub(bid, fee)); err != nil {
			return err
		}
		market.AccumulatedFees = bigStr(new(big.Int).Add(storedValue(market.AccumulatedFees), fee))
		market.TotalVolume = bigStr(new(big.Int).Add(storedValue(market.TotalVolume), bid))
		market.TotalFees = bigStr(new(big.Int).Add(storedValue(market.TotalFees), fee))
		nft, err := getNFT(t, auction.TokenId)
		if err != nil {
			return err
		}
		if err = transferAsset(t, &market, &nft, bidder, model.TradeTypeAuction, bid, fee, now); err != nil {
			return err
		}
		if err = t.Save(&market).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventAuctionEnded, TokenId: auction.TokenId, SubjectId: auctionId, From: addrPtr(auction.Seller), To: addrPtr(bidder), Price: bigPtr(bid), Timestamp: now})
	})
}

// CancelAuction withdraws an auction before any bid was placed, seller only.
// Once a bid exists the seller cannot displace escrowed bidder funds.
func CancelAuction(caller types.Address, auctionId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		auction, err := getAuction(t, auctionId)
		if err != nil {
			return err
		}
		if auction.Seller != caller {
			return ErrNotSeller
		}
		if auction.Ended || auction.Cancelled {
			return ErrAlreadyEnded
		}
		if auction.HighestBidder != nil {
			return ErrBidsAlreadyPlaced
		}
		auction.Cancelled = true
		if err = t.Save(&auction).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventAuctionCancelled, TokenId: auction.TokenId, SubjectId: auctionId, From: addrPtr(caller), Timestamp: now})
	})
}

// WithdrawBid pays out the caller's withdrawable balance for one auction and
// zeroes it. Available at any time, independent of the auction's state.
func WithdrawBid(caller types.Address, auctionId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		var pending model.AuctionBid
		err := t.Where("auction_id=? AND bidder=?", auctionId, caller).First(&pending).Error
		if err == gorm.ErrRecordNotFound {
			return ErrNothingToWithdraw
		}
		if err != nil {
			return err
		}
		amount := storedValue(pending.Amount)
		if amount.Sign() == 0 {
			return ErrNothingToWithdraw
		}
		if err = credit(t, caller, amount); err != nil {
			return err
		}
		pending.Amount = "0"
		if err = t.Save(&pending).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventBidWithdrawn, SubjectId: auctionId, From: addrPtr(caller), Price: bigPtr(amount), Timestamp: now})
	})
}

// GetAuction one auction record
func GetAuction(auctionId uint64) (model.Auction, error) {
	return getAuction(DB, auctionId)
}

// AuctionsRes auction paging return parameters
type AuctionsRes struct {
	Total    int64           `json:"total"`    //The total number of matching auctions
	Auctions []model.Auction `json:"auctions"` //Auction list, creation order
}

// FetchActiveAuctions pages the auctions currently accepting bids
func FetchActiveAuctions(page, size int) (res AuctionsRes, err error) {
	now := nowFunc()
	db := DB.Model(&model.Auction{}).Where("ended=? AND cancelled=? AND end_time>?", false, false, now)
	err = db.Count(&res.Total).Error
	if err != nil {
		return
	}
	err = db.Order("auction_id").Offset((page - 1) * size).Limit(size).Find(&res.Auctions).Error
	return
}

// FetchAuctionsBySeller pages every auction a seller ever opened
func FetchAuctionsBySeller(seller types.Address, page, size int) (res AuctionsRes, err error) {
	db := DB.Model(&model.Auction{}).Where("seller=?", seller)
	err = db.Count(&res.Total).Error
	if err != nil {
		return
	}
	err = db.Order("auction_id").Offset((page - 1) * size).Limit(size).Find(&res.Auctions).Error
	return
}

// GetMinimumBid the lowest bid the auction would currently accept
func GetMinimumBid(auctionId uint64) (types.BigInt, error) {
	auction, err := getAuction(DB, auctionId)
	if err != nil {
		return "", err
	}
	return bigStr(minimumBid(&auction)), nil
}

// GetPendingReturns the withdrawable balance of a bidder for one auction
func GetPendingReturns(auctionId uint64, bidder types.Address) (types.BigInt, error) {
	var pending model.AuctionBid
	err := DB.Where("auction_id=? AND bidder=?", auctionId, bidder).First(&pending).Error
	if err == gorm.ErrRecordNotFound {
		return "0", nil
	}
	if err != nil {
		return "", err
	}
	return pending.Amount, nil
}

// IsInAuction whether the token is locked by a non-terminated auction
func IsInAuction(tokenId uint64) (bool, error) {
	return tokenInAuction(DB, tokenId)
}
