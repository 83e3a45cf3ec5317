package service

import (
	"math/big"

	"gorm.io/gorm"
	"market/common/types"
	"market/conf"
	"market/model"
)

func getOffer(t *gorm.DB, offerId uint64) (offer model.Offer, err error) {
	err = t.Where("offer_id=?", offerId).First(&offer).Error
	if err == gorm.ErrRecordNotFound {
		err = ErrOfferNotFound
	}
	return
}

// offerLive active and not yet expired
func offerLive(o *model.Offer, now uint64) bool {
	return o.Active && now < o.ExpirationTime
}

// MakeOffer escrows the attached value as a standing offer on a token. One
// live offer per account and token; a lapsed or cancelled one can be replaced.
// Offers can target tokens that are not for sale, only the owner decides.
func MakeOffer(caller types.Address, tokenId uint64, duration uint64, value types.BigInt) (offerId uint64, err error) {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	err = DB.Transaction(func(t *gorm.DB) error {
		nft, err := getNFT(t, tokenId)
		if err != nil {
			return err
		}
		if nft.Owner == caller {
			return ErrSelfOffer
		}
		amount, ok := parseValue(value)
		if !ok {
			return ErrPriceZero
		}
		if duration < conf.MinOfferDuration {
			return ErrInvalidExpiration
		}
		var existing model.Offer
		err = t.Where("token_id=? AND offerer=? AND active=?", tokenId, caller, true).First(&existing).Error
		if err == nil && now < existing.ExpirationTime {
			return ErrOfferAlreadyActive
		}
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		if err = debit(t, caller, amount); err != nil {
			return err
		}
		offer := model.Offer{
			TokenId:        tokenId,
			Offerer:        caller,
			Price:          value,
			ExpirationTime: now + duration,
			Active:         true,
		}
		if err = t.Create(&offer).Error; err != nil {
			return err
		}
		offerId = offer.OfferId
		return appendEvent(t, &model.Event{Name: model.EventOfferCreated, TokenId: tokenId, SubjectId: offer.OfferId, From: addrPtr(caller), Price: &value, Timestamp: now})
	})
	return
}

// AcceptOffer sells the token to the offerer at the escrowed price. Owner
// only; the token must be free of auctions and the marketplace approved, the
// same transfer preconditions a direct sale has.
func AcceptOffer(caller types.Address, offerId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		offer, err := getOffer(t, offerId)
		if err != nil {
			return err
		}
		if !offer.Active {
			return ErrOfferNotActive
		}
		if now >= offer.ExpirationTime {
			return ErrOfferExpired
		}
		nft, err := getNFT(t, offer.TokenId)
		if err != nil {
			return err
		}
		if nft.Owner != caller {
			return ErrNotTokenOwner
		}
		locked, err := tokenInAuction(t, offer.TokenId)
		if err != nil {
			return err
		}
		if locked {
			return ErrTokenInAuction
		}
		if !marketApproved(&nft) {
			return ErrNotApprovedMkt
		}
		price := storedValue(offer.Price)
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		fee := feeOf(price, market.FeeBps)
		if err = credit(t, caller, new(big.Int).Sub(price, fee)); err != nil {
			return err
		}
		market.AccumulatedFees = bigStr(new(big.Int).Add(storedValue(market.AccumulatedFees), fee))
		market.TotalVolume = bigStr(new(big.Int).Add(storedValue(market.TotalVolume), price))
		market.TotalFees = bigStr(new(big.Int).Add(storedValue(market.TotalFees), fee))
		if err = transferAsset(t, &market, &nft, offer.Offerer, model.TradeTypeOffer, price, fee, now); err != nil {
			return err
		}
		if err = t.Save(&market).Error; err != nil {
			return err
		}
		offer.Active = false
		offer.Accepted = true
		if err = t.Save(&offer).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventOfferAccepted, TokenId: offer.TokenId, SubjectId: offerId, From: addrPtr(caller), To: addrPtr(offer.Offerer), Price: bigPtr(price), Timestamp: now})
	})
}

// CancelOffer retracts an offer and refunds its escrow, offerer only
func CancelOffer(caller types.Address, offerId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		offer, err := getOffer(t, offerId)
		if err != nil {
			return err
		}
		if !offer.Active {
			return ErrOfferNotActive
		}
		if offer.Offerer != caller {
			return ErrNotOfferer
		}
		if err = credit(t, caller, storedValue(offer.Price)); err != nil {
			return err
		}
		offer.Active = false
		if err = t.Save(&offer).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventOfferCancelled, TokenId: offer.TokenId, SubjectId: offerId, From: addrPtr(caller), Timestamp: now})
	})
}

// UpdateOffer changes the escrowed price of a live offer, offerer only. Only
// the difference moves: raising draws from the balance, lowering refunds.
func UpdateOffer(caller types.Address, offerId uint64, newPrice types.BigInt) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		offer, err := getOffer(t, offerId)
		if err != nil {
			return err
		}
		if !offer.Active {
			return ErrOfferNotActive
		}
		if now >= offer.ExpirationTime {
			return ErrOfferExpired
		}
		if offer.Offerer != caller {
			return ErrNotOfferer
		}
		amount, ok := parseValue(newPrice)
		if !ok {
			return ErrPriceZero
		}
		old := storedValue(offer.Price)
		switch amount.Cmp(old) {
		case 1:
			err = debit(t, caller, new(big.Int).Sub(amount, old))
		case -1:
			err = credit(t, caller, new(big.Int).Sub(old, amount))
		}
		if err != nil {
			return err
		}
		offer.Price = newPrice
		if err = t.Save(&offer).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventOfferUpdated, TokenId: offer.TokenId, SubjectId: offerId, From: addrPtr(caller), Price: &newPrice, Timestamp: now})
	})
}

// WithdrawExpiredOffer releases the escrow of a lapsed offer back to the
// offerer. Callable by anyone, so the sweeper can clean up on users' behalf.
func WithdrawExpiredOffer(caller types.Address, offerId uint64) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		offer, err := getOffer(t, offerId)
		if err != nil {
			return err
		}
		if !offer.Active {
			return ErrOfferNotActive
		}
		if now < offer.ExpirationTime {
			return ErrOfferNotExpired
		}
		if err = credit(t, offer.Offerer, storedValue(offer.Price)); err != nil {
			return err
		}
		offer.Active = false
		if err = t.Save(&offer).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventOfferExpired, TokenId: offer.TokenId, SubjectId: offerId, From: addrPtr(offer.Offerer), Price: &offer.Price, Timestamp: now})
	})
}

// ExpiredOffers ids of offers that lapsed with their escrow still held
func ExpiredOffers() (ids []uint64, err error) {
	now := nowFunc()
	err = DB.Model(&model.Offer{}).Where("active=? AND expiration_time<=?", true, now).
		Order("offer_id").Pluck("offer_id", &ids).Error
	return
}

// GetOffer one offer record
func GetOffer(offerId uint64) (model.Offer, error) {
	return getOffer(DB, offerId)
}

// OffersRes offer paging return parameters
type OffersRes struct {
	Total  int64         `json:"total"`  //The total number of matching offers
	Offers []model.Offer `json:"offers"` //Offer list, creation order
}

// FetchOffersForToken pages the live offers standing on one token
func FetchOffersForToken(tokenId uint64, page, size int) (res OffersRes, err error) {
	now := nowFunc()
	db := DB.Model(&model.Offer{}).Where("token_id=? AND active=? AND expiration_time>?", tokenId, true, now)
	err = db.Count(&res.Total).Error
	if err != nil {
		return
	}
	err = db.Order("offer_id").Offset((page - 1) * size).Limit(size).Find(&res.Offers).Error
	return
}

// FetchOffersByUser pages every offer an account ever made
func FetchOffersByUser(offerer types.Address, page, size int) (res OffersRes, err error) {
	db := DB.Model(&model.Offer{}).Where("offerer=?", offerer)
	err = db.Count(&res.Total).Error
	if err != nil {
		return
	}
	err = db.Order("offer_id").Offset((page - 1) * size).Limit(size).Find(&res.Offers).Error
	return
}

// GetHighestOffer the best live offer on a token, ErrOfferNotFound when none
func GetHighestOffer(tokenId uint64) (best model.Offer, err error) {
	now := nowFunc()
	var offers []model.Offer
	err = DB.Where("token_id=? AND active=? AND expiration_time>?", tokenId, true, now).Find(&offers).Error
	if err != nil {
		return
	}
	if len(offers) == 0 {
		return best, ErrOfferNotFound
	}
	best = offers[0]
	top := storedValue(best.Price)
	for _, offer := range offers[1:] {
		if price := storedValue(offer.Price); price.Cmp(top) > 0 {
			best, top = offer, price
		}
	}
	return
}

// HasActiveOffer whether the account holds a live offer on the token
func HasActiveOffer(tokenId uint64, offerer types.Address) (bool, uint64, error) {
	now := nowFunc()
	var offer model.Offer
	err := DB.Where("token_id=? AND offerer=? AND active=? AND expiration_time>?", tokenId, offerer, true, now).First(&offer).Error
	if err == gorm.ErrRecordNotFound {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, offer.OfferId, nil
}
