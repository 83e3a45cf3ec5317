package main

import (
	"market/conf"
	"market/log"
	"market/monitor"
	"market/router"
	"market/service"
)

// @title       NFT marketplace API
// @version     1.0
// @description Marketplace back-end interface, manages NFT ownership and settles fixed price sales, auctions and offers over escrowed balances
func main() {
	service.Init()
	go monitor.SweepOffers()
	if err := router.Run(conf.ServerAddr); err != nil {
		log.Fatal("Server failed to run:", err)
	}
}
