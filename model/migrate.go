package model

import "gorm.io/gorm"

var Tables = []interface{}{
	&NFT{},
	&Account{},
	&Listing{},
	&Auction{},
	&AuctionBid{},
	&Offer{},
	&Trade{},
	&Event{},
	&Market{},
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Tables...)
}

func DropTable(db *gorm.DB) error {
	return db.Migrator().DropTable(Tables...)
}
