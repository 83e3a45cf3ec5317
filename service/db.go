package service

import (
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"market/conf"
	"market/model"
)

// DB the global ledger store, installed by Init before the router runs
var DB *gorm.DB

// stateMu serializes every state-changing operation: the ledger executes one
// operation at a time to completion, there is never a concurrent writer
var stateMu sync.Mutex

// nowFunc the trusted clock, read once at the start of each operation so that
// every check inside one operation observes the same instant
var nowFunc = func() uint64 { return uint64(time.Now().Unix()) }

func Init() {
	db, err := gorm.Open(mysql.Open(conf.MysqlDsn+"?charset=utf8mb4&parseTime=True&loc=Local"), &gorm.Config{PrepareStmt: true})
	if err != nil {
		panic(err)
	}
	if conf.ResetDB {
		if err = model.DropTable(db); err != nil {
			panic(err)
		}
	}
	if err = SetDB(db); err != nil {
		panic(err)
	}
}

// SetDB migrates the table structure, seeds the market row and installs the store
func SetDB(db *gorm.DB) error {
	if err := model.Migrate(db); err != nil {
		return err
	}
	var market model.Market
	err := db.Where("id=1").First(&market).Error
	if err == gorm.ErrRecordNotFound {
		market = model.Market{
			Id:              1,
			Owner:           conf.MarketAddr,
			FeeBps:          conf.FeeBps,
			AccumulatedFees: "0",
			TotalVolume:     "0",
			TotalFees:       "0",
		}
		err = db.Create(&market).Error
	}
	if err != nil {
		return err
	}
	DB = db
	return nil
}

func getMarket(t *gorm.DB) (market model.Market, err error) {
	err = t.Where("id=1").First(&market).Error
	return
}
