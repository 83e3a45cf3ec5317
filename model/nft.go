package model

import "market/common/types"

// NFT non-fungible asset record, the single source of truth for ownership
type NFT struct {
	TokenId   uint64         `json:"token_id" gorm:"primaryKey;autoIncrement"` //token id, monotonic from 1
	Owner     types.Address  `json:"owner" gorm:"type:CHAR(42);index"`         //current owner
	Creator   types.Address  `json:"creator" gorm:"type:CHAR(42);index"`       //minter, immutable
	Approved  *types.Address `json:"approved" gorm:"type:CHAR(42)"`            //approved operator, cleared on every transfer
	MetaUrl   string         `json:"meta_url"`                                 //metadata reference, content-addressed
	Timestamp uint64         `json:"timestamp"`                                //mint time
	TxHash    types.Hash     `json:"tx_hash" gorm:"type:CHAR(66)"`             //mint record hash
}

// Trade transaction types
const (
	TradeTypeMint    = int32(1) //mint
	TradeTypeMove    = int32(2) //direct transfer
	TradeTypeSale    = int32(3) //fixed price purchase
	TradeTypeAuction = int32(4) //auction settlement
	TradeTypeOffer   = int32(5) //accepted offer
)

// Trade asset movement record
type Trade struct {
	TxHash    types.Hash     `json:"tx_hash" gorm:"type:CHAR(66);primaryKey"` //record hash
	TxType    int32          `json:"tx_type"`                                 //transaction type
	TokenId   uint64         `json:"token_id" gorm:"index"`                   //moved token
	From      types.Address  `json:"from" gorm:"type:CHAR(42);index"`         //previous owner, zero address on mint
	To        types.Address  `json:"to" gorm:"type:CHAR(42);index"`           //new owner
	Price     *types.BigInt  `json:"price"`                                   //settlement price (null for mint and direct transfer)
	Fee       *types.BigInt  `json:"fee"`                                     //marketplace fee taken (null when no settlement)
	Timestamp uint64         `json:"timestamp"`                               //operation time
}
