package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/conf"
	"market/service"
)

func Market(e *gin.Engine) {
	e.POST("/market/deposit", deposit)
	e.POST("/market/withdraw", withdraw)
	e.POST("/market/fee", setFee)
	e.POST("/market/fee/withdraw", withdrawFees)
	e.GET("/market/stats", marketStats)
	e.GET("/market/balance/:addr", getBalance)
	e.GET("/market/events", pageEvents)
}

// @Tags        Market
// @Summary     deposit funds
// @Description Top up the spendable balance of an address from the external payment layer
// @Accept      json
// @Produce     json
// @Param       _ body object true "addr, amount"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /market/deposit [post]
func deposit(c *gin.Context) {
	req := struct {
		Addr   string       `json:"addr"`
		Amount types.BigInt `json:"amount"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	addr, err := utils.ParseAddress(req.Addr)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.Deposit(addr, req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Market
// @Summary     withdraw funds
// @Description Pay out part of the spendable balance to the external payment layer
// @Accept      json
// @Produce     json
// @Param       _ body object true "addr, amount"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /market/withdraw [post]
func withdraw(c *gin.Context) {
	req := struct {
		Addr   string       `json:"addr"`
		Amount types.BigInt `json:"amount"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	addr, err := utils.ParseAddress(req.Addr)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.Withdraw(addr, req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Market
// @Summary     set marketplace fee
// @Description Change the trade fee rate, requires the owner's signature over today's UTC date
// @Accept      json
// @Produce     json
// @Param       _ body object true "auth, fee_bps"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Failure     401 {object} service.ErrRes
// @Router      /market/fee [post]
func setFee(c *gin.Context) {
	req := struct {
		Auth   string `json:"auth"`
		FeeBps uint64 `json:"fee_bps"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	if !utils.VerifyDateSig(req.Auth, conf.MarketAddr) {
		c.JSON(http.StatusUnauthorized, service.ErrRes{ErrStr: service.ErrNotMarketOwner.Error()})
		return
	}

	err = service.SetMarketplaceFee(conf.MarketAddr, req.FeeBps)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Market
// @Summary     withdraw accumulated fees
// @Description Pay the accumulated trade fees out to the owner's balance, requires the owner's signature over today's UTC date
// @Accept      json
// @Produce     json
// @Param       _ body object true "auth"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Failure     401 {object} service.ErrRes
// @Router      /market/fee/withdraw [post]
func withdrawFees(c *gin.Context) {
	req := struct {
		Auth string `json:"auth"`
	}{}
	err := c.BindJSON(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	if !utils.VerifyDateSig(req.Auth, conf.MarketAddr) {
		c.JSON(http.StatusUnauthorized, service.ErrRes{ErrStr: service.ErrNotMarketOwner.Error()})
		return
	}

	err = service.WithdrawFees(conf.MarketAddr)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Market
// @Summary     query market stats
// @Description Query the fee rate, volume totals and live object counts
// @Accept      json
// @Produce     json
// @Success     200 {object} service.StatsRes
// @Failure     400 {object} service.ErrRes
// @Router      /market/stats [get]
func marketStats(c *gin.Context) {
	res, err := service.GetMarketStats()
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        Market
// @Summary     query balance
// @Description Query the spendable balance of an address, zero for unknown accounts
// @Accept      json
// @Produce     json
// @Param       addr path string true "Address"
// @Success     200 {object} string
// @Failure     400 {object} service.ErrRes
// @Router      /market/balance/{addr} [get]
func getBalance(c *gin.Context) {
	addr, err := utils.ParseAddress(c.Param("addr"))
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	balance, err := service.GetBalance(addr)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, balance)
}

// @Tags        Market
// @Summary     query event feed
// @Description Query the append-only event feed oldest first, optionally for one token
// @Accept      json
// @Produce     json
// @Param       token_id  query string false "Token id, if empty, query all"
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.EventsRes
// @Failure     400 {object} service.ErrRes
// @Router      /market/events [get]
func pageEvents(c *gin.Context) {
	req := struct {
		Page     *int   `form:"page"`
		PageSize *int   `form:"page_size"`
		TokenId  uint64 `form:"token_id"`
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

	res, err := service.FetchEvents(req.TokenId, page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}
