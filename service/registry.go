package service

import (
	"math/big"

	"gorm.io/gorm"
	"market/common/types"
	"market/conf"
	"market/model"
)

// Mint creates a new asset owned by to, the caller is recorded as its creator.
// Token ids are assigned monotonically from 1 and assets are never destroyed.
func Mint(caller, to types.Address, metaUrl string) (tokenId uint64, err error) {
	if metaUrl == "" {
		return 0, ErrEmptyMetadata
	}
	if to == types.ZeroAddress {
		return 0, ErrZeroAddress
	}
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	err = DB.Transaction(func(t *gorm.DB) error {
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		nft := model.NFT{Owner: to, Creator: caller, MetaUrl: metaUrl, Timestamp: now}
		if err = t.Create(&nft).Error; err != nil {
			return err
		}
		trade := model.Trade{TxType: model.TradeTypeMint, TokenId: nft.TokenId, From: types.ZeroAddress, To: to, Timestamp: now}
		if err = recordTrade(t, &market, &trade); err != nil {
			return err
		}
		nft.TxHash = trade.TxHash
		if err = t.Save(&nft).Error; err != nil {
			return err
		}
		if err = t.Save(&market).Error; err != nil {
			return err
		}
		tokenId = nft.TokenId
		return appendEvent(t, &model.Event{Name: model.EventMinted, TokenId: nft.TokenId, From: addrPtr(caller), To: addrPtr(to), Timestamp: now})
	})
	return
}

// Approve grants operator the right to transfer the token on the owner's
// behalf; the zero address clears it. Locked while the token is in an auction,
// otherwise a revoked approval could make settlement of a won auction fail.
func Approve(caller types.Address, tokenId uint64, operator types.Address) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	return DB.Transaction(func(t *gorm.DB) error {
		nft, err := getNFT(t, tokenId)
		if err != nil {
			return err
		}
		if nft.Owner != caller {
			return ErrNotTokenOwner
		}
		locked, err := tokenInAuction(t, tokenId)
		if err != nil {
			return err
		}
		if locked {
			return ErrTokenInAuction
		}
		if operator == types.ZeroAddress {
			nft.Approved = nil
		} else {
			nft.Approved = &operator
		}
		return t.Save(&nft).Error
	})
}

// Transfer moves a token from its owner to another account. The caller must be
// the owner or the approved operator. The token must not be locked in an auction.
func Transfer(caller types.Address, tokenId uint64, from, to types.Address) error {
	stateMu.Lock()
	defer stateMu.Unlock()
	now := nowFunc()
	return DB.Transaction(func(t *gorm.DB) error {
		nft, err := getNFT(t, tokenId)
		if err != nil {
			return err
		}
		if nft.Owner != from {
			return ErrNotTokenOwner
		}
		if caller != nft.Owner && (nft.Approved == nil || *nft.Approved != caller) {
			return ErrNotApproved
		}
		if to == types.ZeroAddress {
			return ErrZeroAddress
		}
		locked, err := tokenInAuction(t, tokenId)
		if err != nil {
			return err
		}
		if locked {
			return ErrTokenInAuction
		}
		market, err := getMarket(t)
		if err != nil {
			return err
		}
		if err = transferAsset(t, &market, &nft, to, model.TradeTypeMove, nil, nil, now); err != nil {
			return err
		}
		if err = t.Save(&market).Error; err != nil {
			return err
		}
		return appendEvent(t, &model.Event{Name: model.EventTransfer, TokenId: tokenId, From: addrPtr(from), To: addrPtr(to), Timestamp: now})
	})
}

// transferAsset moves ownership, clears the transfer approval and deactivates
// any active listing of the token: neither survives an ownership change.
// Validation is the caller's responsibility; the caller saves the market row.
func transferAsset(t *gorm.DB, market *model.Market, nft *model.NFT, to types.Address, txType int32, price, fee *big.Int, now uint64) error {
	from := nft.Owner
	nft.Owner = to
	nft.Approved = nil
	if err := t.Save(nft).Error; err != nil {
		return err
	}
	err := t.Model(&model.Listing{}).Where("token_id=? AND active=?", nft.TokenId, true).Update("active", false).Error
	if err != nil {
		return err
	}
	trade := model.Trade{TxType: txType, TokenId: nft.TokenId, From: from, To: to, Timestamp: now}
	if price != nil {
		trade.Price = bigPtr(price)
	}
	if fee != nil {
		trade.Fee = bigPtr(fee)
	}
	return recordTrade(t, market, &trade)
}

func getNFT(t *gorm.DB, tokenId uint64) (nft model.NFT, err error) {
	err = t.Where("token_id=?", tokenId).First(&nft).Error
	if err == gorm.ErrRecordNotFound {
		err = ErrTokenNotFound
	}
	return
}

// OwnerOf the current owner of a token
func OwnerOf(tokenId uint64) (types.Address, error) {
	nft, err := getNFT(DB, tokenId)
	if err != nil {
		return "", err
	}
	return nft.Owner, nil
}

// GetNFT one token with its approval state and metadata reference
func GetNFT(tokenId uint64) (model.NFT, error) {
	return getNFT(DB, tokenId)
}

// GetApproved the approved operator of a token, nil when none
func GetApproved(tokenId uint64) (*types.Address, error) {
	nft, err := getNFT(DB, tokenId)
	if err != nil {
		return nil, err
	}
	return nft.Approved, nil
}

// TokenURI the metadata reference of a token
func TokenURI(tokenId uint64) (string, error) {
	nft, err := getNFT(DB, tokenId)
	if err != nil {
		return "", err
	}
	return nft.MetaUrl, nil
}

// marketApproved reports whether the marketplace may move the token
func marketApproved(nft *model.NFT) bool {
	return nft.Approved != nil && *nft.Approved == conf.MarketAddr
}

// NFTsRes NFT paging return parameters
type NFTsRes struct {
	Total int64       `json:"total"` //The total number of matching tokens
	NFTs  []model.NFT `json:"nfts"`  //NFT list
}

// FetchNFTs pages tokens in creation order, optionally by owner
func FetchNFTs(owner types.Address, page, size int) (res NFTsRes, err error) {
	db := DB.Model(&model.NFT{})
	if owner != "" {
		db = db.Where("owner=?", owner)
	}
	err = db.Count(&res.Total).Error
	if err != nil {
		return
	}
	err = db.Order("token_id").Offset((page - 1) * size).Limit(size).Find(&res.NFTs).Error
	return
}

// TotalSupply the number of tokens ever minted
func TotalSupply() (count int64, err error) {
	err = DB.Model(&model.NFT{}).Count(&count).Error
	return
}

// BalanceOf the number of tokens held by an address
func BalanceOf(owner types.Address) (count int64, err error) {
	err = DB.Model(&model.NFT{}).Where("owner=?", owner).Count(&count).Error
	return
}
