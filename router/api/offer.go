package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/service"
)

func Offer(e *gin.Engine) {
	e.POST("/offer/create", createOffer)
	e.POST("/offer/accept", acceptOffer)
	e.POST("/offer/cancel", cancelOffer)
	e.POST("/offer/update", updateOffer)
	e.POST("/offer/withdraw", withdrawExpiredOffer)
	e.GET("/offer/token/:id", pageOfferByToken)
	e.GET("/offer/token/:id/highest", getHighestOffer)
	e.GET("/offer/token/:id/active", hasActiveOffer)
	e.GET("/offer/user/:addr", pageOfferByUser)
	e.GET("/offer/:id", getOffer)
}

type OfferIdRes struct {
	OfferId uint64 `json:"offer_id"` //The id assigned to the created offer
}

// @Tags        Offer
// @Summary     make offer
// @Description Escrow the attached value as a standing offer on a token, one live offer per account and token
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, duration, value"
// @Success     200 {object} OfferIdRes
// @Failure     400 {object} service.ErrRes
// @Router      /offer/create [post]
func createOffer(c *gin.Context) {
	req := struct {
		Caller   string       `json:"caller"`
		TokenId  uint64       `json:"token_id"`
		Duration uint64       `json:"duration"`
		Value    types.BigInt `json:"value"`
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

	offerId, err := service.MakeOffer(caller, req.TokenId, req.Duration, req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, OfferIdRes{OfferId: offerId})
}

// @Tags        Offer
// @Summary     accept offer
// @Description Sell the token to the offerer at the escrowed price, owner only
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, offer_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /offer/accept [post]
func acceptOffer(c *gin.Context) {
	req := struct {
		Caller  string `json:"caller"`
		OfferId uint64 `json:"offer_id"`
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

	err = service.AcceptOffer(caller, req.OfferId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Offer
// @Summary     cancel offer
// @Description Retract an offer and refund its escrow, offerer only
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, offer_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /offer/cancel [post]
func cancelOffer(c *gin.Context) {
	req := struct {
		Caller  string `json:"caller"`
		OfferId uint64 `json:"offer_id"`
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

	err = service.CancelOffer(caller, req.OfferId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Offer
// @Summary     update offer
// @Description Change the escrowed price of a live offer, only the difference moves
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, offer_id, price"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /offer/update [post]
func updateOffer(c *gin.Context) {
	req := struct {
		Caller  string       `json:"caller"`
		OfferId uint64       `json:"offer_id"`
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

	err = service.UpdateOffer(caller, req.OfferId, req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Offer
// @Summary     withdraw expired offer
// @Description Release the escrow of a lapsed offer back to the offerer, callable by anyone
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, offer_id"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /offer/withdraw [post]
func withdrawExpiredOffer(c *gin.Context) {
	req := struct {
		Caller  string `json:"caller"`
		OfferId uint64 `json:"offer_id"`
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

	err = service.WithdrawExpiredOffer(caller, req.OfferId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        Offer
// @Summary     query offers on token
// @Description Query the live offers standing on one token in creation order
// @Accept      json
// @Produce     json
// @Param       id        path  string true  "Token id"
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.OffersRes
// @Failure     400 {object} service.ErrRes
// @Router      /offer/token/{id} [get]
func pageOfferByToken(c *gin.Context) {
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
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	res, err := service.FetchOffersForToken(tokenId, page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        Offer
// @Summary     query highest offer
// @Description Query the best live offer on a token
// @Accept      json
// @Produce     json
// @Param       id path string true "Token id"
// @Success     200 {object} model.Offer
// @Failure     400 {object} service.ErrRes
// @Router      /offer/token/{id}/highest [get]
func getHighestOffer(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	offer, err := service.GetHighestOffer(tokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, offer)
}

type ActiveOfferRes struct {
	Active  bool   `json:"active"`   //Whether the account holds a live offer on the token
	OfferId uint64 `json:"offer_id"` //The id of that offer, zero when none
}

// @Tags        Offer
// @Summary     query active offer of one account
// @Description Query whether the account holds a live offer on the token
// @Accept      json
// @Produce     json
// @Param       id      path  string true "Token id"
// @Param       offerer query string true "Offerer address"
// @Success     200 {object} ActiveOfferRes
// @Failure     400 {object} service.ErrRes
// @Router      /offer/token/{id}/active [get]
func hasActiveOffer(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	offerer, err := utils.ParseAddress(c.Query("offerer"))
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	active, offerId, err := service.HasActiveOffer(tokenId, offerer)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, ActiveOfferRes{Active: active, OfferId: offerId})
}

// @Tags        Offer
// @Summary     query offers by user
// @Description Query every offer an account ever made in creation order
// @Accept      json
// @Produce     json
// @Param       addr      path  string true  "Offerer address"
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.OffersRes
// @Failure     400 {object} service.ErrRes
// @Router      /offer/user/{addr} [get]
func pageOfferByUser(c *gin.Context) {
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
	offerer, err := utils.ParseAddress(c.Param("addr"))
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	res, err := service.FetchOffersByUser(offerer, page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        Offer
// @Summary     query one offer
// @Description Query one offer with its escrowed price and state flags
// @Accept      json
// @Produce     json
// @Param       id path string true "Offer id"
// @Success     200 {object} model.Offer
// @Failure     400 {object} service.ErrRes
// @Router      /offer/{id} [get]
func getOffer(c *gin.Context) {
	offerId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	offer, err := service.GetOffer(offerId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, offer)
}
