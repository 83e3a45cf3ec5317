package service

import "errors"

// Operation failures, messages mirror the marketplace interface error strings.
// Every operation validates against these before any state is written, a failed
// operation leaves the ledger untouched and the caller keeps any attached value.
var (
	// validation
	ErrPriceZero         = errors.New("Price must be greater than 0")
	ErrAmountZero        = errors.New("Amount must be greater than 0")
	ErrEmptyMetadata     = errors.New("Metadata URL cannot be empty")
	ErrZeroAddress       = errors.New("Transfer to the zero address")
	ErrReserveTooLow     = errors.New("Reserve price below starting price")
	ErrInvalidDuration   = errors.New("Auction duration too short")
	ErrInvalidExpiration = errors.New("Expiration duration too short")
	ErrFeeTooHigh        = errors.New("Fee too high")

	// authorization
	ErrNotTokenOwner  = errors.New("Not token owner")
	ErrNotApproved    = errors.New("Caller is not owner nor approved")
	ErrNotApprovedMkt = errors.New("Marketplace not approved")
	ErrNotSeller      = errors.New("Not the seller")
	ErrNotOfferer     = errors.New("Not the offerer")
	ErrNotMarketOwner = errors.New("Not the marketplace owner")

	// state conflicts
	ErrTokenNotFound      = errors.New("Token does not exist")
	ErrAlreadyListed      = errors.New("Already listed")
	ErrNotListed          = errors.New("NFT not listed")
	ErrTokenInAuction     = errors.New("Token is locked in an auction")
	ErrAuctionNotFound    = errors.New("Auction does not exist")
	ErrAuctionNotActive   = errors.New("Auction not active")
	ErrAuctionStillActive = errors.New("Auction still active")
	ErrAlreadyEnded       = errors.New("Auction already ended")
	ErrBidsAlreadyPlaced  = errors.New("Cannot cancel auction with bids")
	ErrOfferNotFound      = errors.New("Offer does not exist")
	ErrOfferNotActive     = errors.New("Offer not active")
	ErrOfferExpired       = errors.New("Offer expired")
	ErrOfferNotExpired    = errors.New("Offer not expired yet")
	ErrOfferAlreadyActive = errors.New("Offer already active")
	ErrNothingToWithdraw  = errors.New("Nothing to withdraw")

	// payment
	ErrInsufficientPayment = errors.New("Insufficient payment")
	ErrInsufficientBalance = errors.New("Insufficient balance")
	ErrBidTooLow           = errors.New("Bid too low")
	ErrSelfPurchase        = errors.New("Cannot buy your own NFT")
	ErrSelfOffer           = errors.New("Cannot make an offer on your own NFT")
	ErrSelfBid             = errors.New("Seller cannot bid")
)
