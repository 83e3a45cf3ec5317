package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"market/common/types"
	"market/common/utils"
	"market/service"
)

func NFT(e *gin.Engine) {
	e.POST("/nft/mint", mintNFT)
	e.POST("/nft/approve", approveNFT)
	e.POST("/nft/transfer", transferNFT)
	e.GET("/nft/page", pageNFT)
	e.GET("/nft/supply", totalSupply)
	e.GET("/nft/balance/:addr", balanceOf)
	e.GET("/nft/:id", getNFT)
	e.GET("/nft/:id/uri", getTokenURI)
	e.GET("/nft/:id/approved", getApproved)
}

type MintRes struct {
	TokenId uint64 `json:"token_id"` //The id assigned to the minted token
}

// @Tags        NFT
// @Summary     mint NFT
// @Description Create a new token owned by to, the caller becomes its creator
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, to, meta_url"
// @Success     200 {object} MintRes
// @Failure     400 {object} service.ErrRes
// @Router      /nft/mint [post]
func mintNFT(c *gin.Context) {
	req := struct {
		Caller  string `json:"caller"`
		To      string `json:"to"`
		MetaUrl string `json:"meta_url"`
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
	to, err := utils.ParseAddress(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	tokenId, err := service.Mint(caller, to, req.MetaUrl)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, MintRes{TokenId: tokenId})
}

// @Tags        NFT
// @Summary     approve operator
// @Description Grant the operator transfer rights over the token, the zero address revokes
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, operator"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /nft/approve [post]
func approveNFT(c *gin.Context) {
	req := struct {
		Caller   string `json:"caller"`
		TokenId  uint64 `json:"token_id"`
		Operator string `json:"operator"`
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
	operator, err := utils.ParseAddress(req.Operator)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.Approve(caller, req.TokenId, operator)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        NFT
// @Summary     transfer NFT
// @Description Move the token from its owner to another account, owner or approved operator only
// @Accept      json
// @Produce     json
// @Param       _ body object true "caller, token_id, from, to"
// @Success     200
// @Failure     400 {object} service.ErrRes
// @Router      /nft/transfer [post]
func transferNFT(c *gin.Context) {
	req := struct {
		Caller  string `json:"caller"`
		TokenId uint64 `json:"token_id"`
		From    string `json:"from"`
		To      string `json:"to"`
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
	from, err := utils.ParseAddress(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	to, err := utils.ParseAddress(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	err = service.Transfer(caller, req.TokenId, from, to)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

// @Tags        NFT
// @Summary     query NFT list
// @Description Query the token list in creation order, optionally filtered by owner
// @Accept      json
// @Produce     json
// @Param       owner     query string false "Owner, if empty, query all"
// @Param       page      query string false "Page, default 1"
// @Param       page_size query string false "Page size, default 10"
// @Success     200 {object} service.NFTsRes
// @Failure     400 {object} service.ErrRes
// @Router      /nft/page [get]
func pageNFT(c *gin.Context) {
	req := struct {
		Page     *int   `form:"page"`
		PageSize *int   `form:"page_size"`
		Owner    string `form:"owner"`
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
	owner := types.Address("")
	if req.Owner != "" {
		if owner, err = utils.ParseAddress(req.Owner); err != nil {
			c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
			return
		}
	}

	res, err := service.FetchNFTs(owner, page, size)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Tags        NFT
// @Summary     query total supply
// @Description Query the number of tokens ever minted
// @Accept      json
// @Produce     json
// @Success     200 {object} int64
// @Failure     400 {object} service.ErrRes
// @Router      /nft/supply [get]
func totalSupply(c *gin.Context) {
	count, err := service.TotalSupply()
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, count)
}

// @Tags        NFT
// @Summary     query holdings
// @Description Query the number of tokens held by an address
// @Accept      json
// @Produce     json
// @Param       addr path string true "Address"
// @Success     200 {object} int64
// @Failure     400 {object} service.ErrRes
// @Router      /nft/balance/{addr} [get]
func balanceOf(c *gin.Context) {
	addr, err := utils.ParseAddress(c.Param("addr"))
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	count, err := service.BalanceOf(addr)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, count)
}

// @Tags        NFT
// @Summary     query one NFT
// @Description Query one token with its owner, approval state and metadata reference
// @Accept      json
// @Produce     json
// @Param       id path string true "Token id"
// @Success     200 {object} model.NFT
// @Failure     400 {object} service.ErrRes
// @Router      /nft/{id} [get]
func getNFT(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	nft, err := service.GetNFT(tokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, nft)
}

// @Tags        NFT
// @Summary     query token URI
// @Description Query the metadata reference of a token
// @Accept      json
// @Produce     json
// @Param       id path string true "Token id"
// @Success     200 {object} string
// @Failure     400 {object} service.ErrRes
// @Router      /nft/{id}/uri [get]
func getTokenURI(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	uri, err := service.TokenURI(tokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, uri)
}

// @Tags        NFT
// @Summary     query approved operator
// @Description Query the approved operator of a token, null when none
// @Accept      json
// @Produce     json
// @Param       id path string true "Token id"
// @Success     200 {object} string
// @Failure     400 {object} service.ErrRes
// @Router      /nft/{id}/approved [get]
func getApproved(c *gin.Context) {
	tokenId, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}

	operator, err := service.GetApproved(tokenId)
	if err != nil {
		c.JSON(http.StatusBadRequest, service.ErrRes{ErrStr: err.Error()})
		return
	}
	c.JSON(http.StatusOK, operator)
}
