package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/service"
)

func Listing(e *gin.Engine) {
	e.POST("/listing/create", createListing)
	e.POST("/listing/buy", buyListing)
	e.POST("/listing/cancel", cancelListing)
	e.POST("/listing/price", updateListingPrice)
	e.GET("/listing/page", pageListing)
	e.GET("/listing/count", countListing)
	e.GET("/listing/:id", getListing)
}

// @Tags        Listing
// @Summary     list NFT
// @Description Put a token up for sale at a fixed price, owner only, requires marketplace approval
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, price"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /listing/create [post]
func createListing(c *gin.Context) {
	req := struct {
		Caller  string       `json:"caller"`
		TokenId uint64       `json:"token_id"`
		Price   types.BigInt `json:"price"`
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

	err = service.ListNFT(caller, req.TokenId, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Listing
// @Summary     buy NFT
// @Description Purchase a listed token, the attached value must cover the asking price
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, value"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /listing/buy [post]
func buyListing(c *gin.Context) {
	req := struct {
		Caller  string       `json:"caller"`
		TokenId uint64       `json:"token_id"`
		Value   types.BigInt `json:"value"`
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

	err = service.BuyNFT(caller, req.TokenId, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Listing
// @Summary     cancel listing
// @Description Take a token off sale, seller only
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /listing/cancel [post]
func cancelListing(c *gin.Context) {
	req := struct {
		Caller  string `json:"caller"`
		TokenId uint64 `json:"token_id"`
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

	err = service.CancelListing(caller, req.TokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Listing
// @Summary     update listing price
// @Description Replace the asking price of an active listing, seller only
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, price"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /listing/price [post]
func updateListingPrice(c *gin.Context) {
	req := struct {
		Caller  string       `json:"caller"`
		TokenId uint64       `json:"token_id"`
		Price   types.BigInt `json:"price"`
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

	err = service.UpdatePrice(caller, req.TokenId, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Listing
// @Summary     query listing list
// @Description Query the currently purchasable listings in creation order
// @Accept      json
// @Produce     json
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.ListingsRes
// @Failure     400 {object} service.ErrRes
// @Router      /listing/page [get]
func pageListing(c *gin.Context) {
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

	res, err := service.FetchListings(page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        Listing
// @Summary     query listing count
// @Description Query the number of currently purchasable listings
// @Accept      json
// @Produce     json
// @Success     200 {object} int64
// @Failure     400 {object} service.ErrRes
// @Router      /listing/count [get]
func countListing(c *gin.Context) {
	count, err := service.GetListingCount()
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, count)
}

// @Tags        Listing
// @Summary     query one listing
// @Description Query the active listing of one token, stale listings read as absent
// @Accept      json
// @Produce     json
// @Param       id path string true "Token id"
// @Success     200 {object} model.Listing
// @Failure     400 {object} service.ErrRes
// @Router      /listing/{id} [get]
func getListing(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	listing, err := service.GetNFTListing(tokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, listing)
}
