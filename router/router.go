package router

import (
	"github.com/gin-gonic/gin"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	_ "market/docs"
	"market/middleware"
	"market/router/api"
)

func Run(addr string) error {
	r := gin.New()
	// Allow cross-domain access, and those with nginx and other proxies can be closed
	r.Use(middleware.Cors())
	// Set up accessible routes
	api.NFT(r)
	api.Listing(r)
	api.Auction(r)
	api.Offer(r)
	api.Market(r)
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r.Run(addr)
}
