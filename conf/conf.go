package conf

import (
	"log"
	"os"
	"strconv"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/joho/godotenv"
	"market/common/types"
	"market/common/utils"
)

// default allocation
var (
	ServerAddr                = ":3000"
	MysqlDsn                  = "root:123456@tcp(127.0.0.1:3306)/market"
	ResetDB                   = false
	HexKey                    = "7b2546a5d4e658d079c6b2755c6d7495edd01a686fddae010830e9c93b23e398"
	FeeBps             uint64 = 250  // marketplace fee in basis points, ceiling 1000 (10%)
	MinIncrementBps    uint64 = 500  // a new bid must exceed the highest bid by this fraction
	MinAuctionDuration uint64 = 3600 // seconds
	MinOfferDuration   uint64 = 3600 // seconds
	SweepInterval      int64  = 60   // seconds between expired-offer sweeps
)

// globally available object instantiated from config
var (
	PrivateKey *secp256k1.PrivateKey // marketplace operator private key
	MarketAddr types.Address         // marketplace operator address, asset approvals must name it
)

func init() {
	// set log printout to stdout instead of stderr
	log.SetOutput(os.Stdout)

	// read configuration to override default value
	setConf()

	// check configuration
	if FeeBps > 1000 {
		panic("conf.FeeBps > 1000")
	}
	if SweepInterval < 1 {
		panic("conf.SweepInterval < 1")
	}

	var err error
	PrivateKey, err = utils.HexToECDSA(HexKey)
	if err != nil {
		panic(err)
	}
	MarketAddr = utils.PubkeyToAddress(PrivateKey.PubKey())
}

func setConf() {
	err := godotenv.Load("market.env")
	if err != nil {
		log.Println("Failed to load environment variables from .env file,", err)
	}

	if serverAddr := os.Getenv("SERVER_ADDR"); serverAddr != "" {
		ServerAddr = serverAddr
	}
	if mysqlDsn := os.Getenv("MYSQL_DSN"); mysqlDsn != "" {
		MysqlDsn = mysqlDsn
	}
	if resetDB := os.Getenv("RESET_DB"); resetDB != "" {
		ResetDB = resetDB == "true"
	}
	if hexKey := os.Getenv("HEX_KEY"); hexKey != "" {
		HexKey = hexKey
	}
	if feeBps := os.Getenv("FEE_BPS"); feeBps != "" {
		FeeBps, err = strconv.ParseUint(feeBps, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if minIncrement := os.Getenv("MIN_INCREMENT_BPS"); minIncrement != "" {
		MinIncrementBps, err = strconv.ParseUint(minIncrement, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if minAuction := os.Getenv("MIN_AUCTION_DURATION"); minAuction != "" {
		MinAuctionDuration, err = strconv.ParseUint(minAuction, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if minOffer := os.Getenv("MIN_OFFER_DURATION"); minOffer != "" {
		MinOfferDuration, err = strconv.ParseUint(minOffer, 0, 64)
		if err != nil {
			panic(err)
		}
	}
	if sweep := os.Getenv("SWEEP_INTERVAL"); sweep != "" {
		SweepInterval, err = strconv.ParseInt(sweep, 0, 64)
		if err != nil {
			panic(err)
		}
	}
}
