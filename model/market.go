package model

import "market/common/types"

// Account native currency balance held by the ledger for one address
type Account struct {
	Address types.Address `json:"address" gorm:"type:CHAR(42);primaryKey"` //account address
	Balance types.BigInt  `json:"balance" gorm:"type:VARCHAR(78)"`         //spendable balance, smallest unit
}

// Listing fixed price sale state, at most one row per token
type Listing struct {
	TokenId   uint64        `json:"token_id" gorm:"primaryKey;autoIncrement:false"` //listed token
	Seller    types.Address `json:"seller" gorm:"type:CHAR(42);index"`              //seller at listing time
	Price     types.BigInt  `json:"price" gorm:"type:VARCHAR(78)"`                  //asking price, smallest unit
	Active    bool          `json:"active" gorm:"index"`                            //on sale flag
	Timestamp uint64        `json:"timestamp"`                                      //listing time
}

// Auction English auction record; while active the token is locked
type Auction struct {
	AuctionId     uint64         `json:"auction_id" gorm:"primaryKey;autoIncrement"` //auction id, monotonic from 1
	TokenId       uint64         `json:"token_id" gorm:"index"`                      //auctioned token
	Seller        types.Address  `json:"seller" gorm:"type:CHAR(42);index"`          //seller
	StartingPrice types.BigInt   `json:"starting_price" gorm:"type:VARCHAR(78)"`     //minimum first bid
	ReservePrice  types.BigInt   `json:"reserve_price" gorm:"type:VARCHAR(78)"`      //minimum winning bid, >= starting price
	HighestBid    types.BigInt   `json:"highest_bid" gorm:"type:VARCHAR(78)"`        //current highest bid, "0" until first bid
	HighestBidder *types.Address `json:"highest_bidder" gorm:"type:CHAR(42)"`        //current highest bidder, null until first bid
	StartTime     uint64         `json:"start_time"`                                 //creation time
	EndTime       uint64         `json:"end_time" gorm:"index"`                      //start time + duration
	Ended         bool           `json:"ended"`                                      //terminal: settled or reserve not met
	Cancelled     bool           `json:"cancelled"`                                  //terminal: cancelled before any bid
}

// AuctionBid withdrawable balance of an outbid bidder, the pull-payment side of bidding
type AuctionBid struct {
	AuctionId uint64        `json:"auction_id" gorm:"primaryKey;autoIncrement:false"` //auction
	Bidder    types.Address `json:"bidder" gorm:"type:CHAR(42);primaryKey"`           //outbid bidder
	Amount    types.BigInt  `json:"amount" gorm:"type:VARCHAR(78)"`                   //refundable amount, zeroed on withdrawal
}

// Offer escrowed standing offer to buy a token, independent of listings and auctions
type Offer struct {
	OfferId        uint64        `json:"offer_id" gorm:"primaryKey;autoIncrement"` //offer id, monotonic from 1
	TokenId        uint64        `json:"token_id" gorm:"index"`                    //target token
	Offerer        types.Address `json:"offerer" gorm:"type:CHAR(42);index"`       //buyer, escrow owner
	Price          types.BigInt  `json:"price" gorm:"type:VARCHAR(78)"`            //escrowed amount
	ExpirationTime uint64        `json:"expiration_time" gorm:"index"`             //after this anyone may release the escrow
	Active         bool          `json:"active" gorm:"index"`                      //open flag
	Accepted       bool          `json:"accepted"`                                 //resolved by acceptance
}

// Event names, the read-side projection's only source of truth
const (
	EventMinted           = "Minted"
	EventTransfer         = "Transfer"
	EventListed           = "Listed"
	EventSold             = "Sold"
	EventListingCancelled = "ListingCancelled"
	EventPriceUpdated     = "PriceUpdated"
	EventAuctionCreated   = "AuctionCreated"
	EventBidPlaced        = "BidPlaced"
	EventBidWithdrawn     = "BidWithdrawn"
	EventAuctionEnded     = "AuctionEnded"
	EventAuctionCancelled = "AuctionCancelled"
	EventOfferCreated     = "OfferCreated"
	EventOfferAccepted    = "OfferAccepted"
	EventOfferCancelled   = "OfferCancelled"
	EventOfferUpdated     = "OfferUpdated"
	EventOfferExpired     = "OfferExpired"
	EventFeeUpdated       = "FeeUpdated"
)

// Event append-only operation log, written in the same transaction as the mutation
type Event struct {
	Id        uint64         `json:"id" gorm:"primaryKey;autoIncrement"` //event sequence number
	Name      string         `json:"name" gorm:"type:VARCHAR(32);index"` //event name
	TokenId   uint64         `json:"token_id" gorm:"index"`              //subject token, 0 for fee events
	SubjectId uint64         `json:"subject_id"`                         //auction or offer id, 0 otherwise
	From      *types.Address `json:"from" gorm:"type:CHAR(42)"`          //acting party
	To        *types.Address `json:"to" gorm:"type:CHAR(42)"`            //counterparty
	Price     *types.BigInt  `json:"price"`                              //amount involved
	Timestamp uint64         `json:"timestamp"`                          //operation time
}

// Market fee policy and running totals, a single row with id 1
type Market struct {
	Id              uint32        `json:"-" gorm:"primaryKey;autoIncrement:false"` //always 1
	Owner           types.Address `json:"owner" gorm:"type:CHAR(42)"`              //marketplace owner, fee administrator
	FeeBps          uint64        `json:"fee_bps"`                                 //fee in basis points, at most 1000
	AccumulatedFees types.BigInt  `json:"accumulated_fees" gorm:"type:VARCHAR(78)"` //fees awaiting owner withdrawal
	TotalVolume     types.BigInt  `json:"total_volume" gorm:"type:VARCHAR(78)"`    //sum of all settlement prices
	TotalFees       types.BigInt  `json:"total_fees" gorm:"type:VARCHAR(78)"`      //sum of all fees ever taken
	TradeCount      uint64        `json:"trade_count"`                             //number of asset movements, also the trade hash nonce
}
