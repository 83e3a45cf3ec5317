package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/service"
)

func Auction(e *gin.Engine) {
	e.POST("/auction/create", createAuction)
	e.POST("/auction/bid", placeBid)
	e.POST("/auction/end", endAuction)
	e.POST("/auction/cancel", cancelAuction)
	e.POST("/auction/withdraw", withdrawBid)
	e.GET("/auction/page", pageAuction)
	e.GET("/auction/seller/:addr", pageAuctionBySeller)
	e.GET("/auction/token/:id", tokenInAuction)
	e.GET("/auction/:id", getAuction)
	e.GET("/auction/:id/min_bid", getMinimumBid)
	e.GET("/auction/:id/pending", getPendingReturns)
}

type AuctionIdRes struct {
	AuctionId uint64 `json:"auction_id"` //The id assigned to the opened auction
}

// @Tags        Auction
// @Summary     create auction
// @Description Open a time-boxed auction over a token and lock it until the auction terminates
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, starting_price, reserve_price, duration"
// @Success     200 {object} AuctionIdRes
// @Failure     400 {object} service.ErrRes
// @Router      /auction/create [post]
func createAuction(c *gin.Context) {
	req := struct {
		Caller        string       `json:"caller"`
		TokenId       uint64       `json:"token_id"`
		StartingPrice types.BigInt `json:"starting_price"`
		ReservePrice  types.BigInt `json:"reserve_price"`
		Duration      uint64       `json:"duration"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	caller, err := utils.ParseAddress(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	auctionId, err := service.CreateAuction(caller, req.TokenId, req.StartingPrice, req.ReservePrice, req.Duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, AuctionIdRes{AuctionId: auctionId})
}

// @Tags        Auction
// @Summary     place bid
// @Description Escrow the attached value as the new highest bid, the displaced bid becomes withdrawable
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, auction_id, value"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /auction/bid [post]
func placeBid(c *gin.Context) {
	req := struct {
		Caller    string       `json:"caller"`
		AuctionId uint64       `json:"auction_id"`
		Value     types.BigInt `json:"value"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	caller, err := utils.ParseAddress(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.PlaceBid(caller, req.AuctionId, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Auction
// @Summary     end auction
// @Description Finalize an expired auction, callable by anyone
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, auction_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /auction/end [post]
func endAuction(c *gin.Context) {
	req := struct {
		Caller    string `json:"caller"`
		AuctionId uint64 `json:"auction_id"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	caller, err := utils.ParseAddress(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.EndAuction(caller, req.AuctionId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Auction
// @Summary     cancel auction
// @Description Withdraw an auction before any bid was placed, seller only
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, auction_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /auction/cancel [post]
func cancelAuction(c *gin.Context) {
	req := struct {
		Caller    string `json:"caller"`
		AuctionId uint64 `json:"auction_id"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	caller, err := utils.ParseAddress(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.CancelAuction(caller, req.AuctionId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Auction
// @Summary     withdraw displaced bid
// @Description Pay out the caller's withdrawable balance for one auction
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, auction_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /auction/withdraw [post]
func withdrawBid(c *gin.Context) {
	req := struct {
		Caller    string `json:"caller"`
		AuctionId uint64 `json:"auction_id"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	caller, err := utils.ParseAddress(req.Caller)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.WithdrawBid(caller, req.AuctionId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Auction
// @Summary     query active auctions
// @Description Query the auctions currently accepting bids in creation order
// @Accept      json
// @Produce     json
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.AuctionsRes
// @Failure     400 {object} service.ErrRes
// @Router      /auction/page [get]
func pageAuction(c *gin.Context) {
	req := struct {
		Page     *int `form:"page"`
		PageSize *int `form:"page_size"`
	}{}
	err := c.BindQuery(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	page, size, err := utils.ParsePage(req.Page, req.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	res, err := service.FetchActiveAuctions(page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        Auction
// @Summary     query auctions by seller
// @Description Query every auction a seller ever opened
// @Accept      json
// @Produce     json
// @Param       addr      path  string true  "Seller address"
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.AuctionsRes
// @Failure     400 {object} service.ErrRes
// @Router      /auction/seller/{addr} [get]
func pageAuctionBySeller(c *gin.Context) {
	req := struct {
		Page     *int `form:"page"`
		PageSize *int `form:"page_size"`
	}{}
	err := c.BindQuery(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	page, size, err := utils.ParsePage(req.Page, req.PageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	seller, err := utils.ParseAddress(c.Param("addr"))
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	res, err := service.FetchAuctionsBySeller(seller, page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        Auction
// @Summary     query auction lock
// @Description Query whether the token is locked by a non-terminated auction
// @Accept      json
// @Produce     json
// @Param       id path string true "Token id"
// @Success     200 {object} bool
// @Failure     400 {object} service.ErrRes
// @Router      /auction/token/{id} [get]
func tokenInAuction(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	locked, err := service.IsInAuction(tokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, locked)
}

// @Tags        Auction
// @Summary     query one auction
// @Description Query one auction with its highest bid and state flags
// @Accept      json
// @Produce     json
// @Param       id path string true "Auction id"
// @Success     200 {object} model.Auction
// @Failure     400 {object} service.ErrRes
// @Router      /auction/{id} [get]
func getAuction(c *gin.Context) {
	auctionId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	auction, err := service.GetAuction(auctionId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, auction)
}

// @Tags        Auction
// @Summary     query minimum bid
// @Description Query the lowest bid the auction would currently accept
// @Accept      json
// @Produce     json
// @Param       id path string true "Auction id"
// @Success     200 {object} string
// @Failure     400 {object} service.ErrRes
// @Router      /auction/{id}/min_bid [get]
func getMinimumBid(c *gin.Context) {
	auctionId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	minBid, err := service.GetMinimumBid(auctionId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, minBid)
}

// @Tags        Auction
// @Summary     query pending returns
// @Description Query the withdrawable balance of a bidder for one auction
// @Accept      json
// @Produce     json
// @Param       id     path  string true "Auction id"
// @Param       bidder query string true "Bidder address"
// @Success     200 {object} string
// @Failure     400 {object} service.ErrRes
// @Router      /auction/{id}/pending [get]
func getPendingReturns(c *gin.Context) {
	auctionId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	bidder, err := utils.ParseAddress(c.Query("bidder"))
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	pending, err := service.GetPendingReturns(auctionId, bidder)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, pending)
}
