package service

import (
	"fmt"

	"gorm.io/gorm"
	"market/common/utils"
	"market/model"
)

func appendEvent(t *gorm.DB, e *model.Event) error {
	return t.Create(e).Error
}

// recordTrade writes an asset movement record, numbered from the market row
// nonce so every record hash is unique; the caller saves the market row
func recordTrade(t *gorm.DB, market *model.Market, trade *model.Trade) error {
	market.TradeCount++
	payload := fmt.Sprintf("%d|%d|%s|%s|%d", trade.TxType, trade.TokenId, trade.From, trade.To, market.TradeCount)
	trade.TxHash = utils.Keccak256Hash([]byte(payload))
	return t.Create(trade).Error
}

// EventsRes event paging return parameters
type EventsRes struct {
	Total  int64         `json:"total"`  //The total number of matching events
	Events []model.Event `json:"events"` //Event list, oldest first
}

// FetchEvents pages the append-only event feed, optionally for one token.
// The feed is the only source of truth for read-side projections.
func FetchEvents(tokenId uint64, page, size int) (res EventsRes, err error) {
	db := DB.Model(&model.Event{})
	if tokenId != 0 {
		db = db.Where("token_id=?", tokenId)
	}
	err = db.Count(&res.Total).Error
	if err != nil {
		return
	}
	err = db.Order("id").Offset((page - 1) * size).Limit(size).Find(&res.Events).Error
	return
}
