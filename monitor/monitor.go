package monitor

import (
	"time"

	"market/conf"
	"market/log"
	"market/service"
)

// SweepOffers periodically releases the escrow of lapsed offers back to their
// offerers. Anyone may trigger the release, the sweeper just saves users the
// call. Runs until the process exits.
func SweepOffers() {
	for {
		time.Sleep(time.Duration(conf.SweepInterval) * time.Second)
		ids, err := service.ExpiredOffers()
		if err != nil {
			log.Errorf("offer sweep query failed: %v", err)
			continue
		}
		for _, id := range ids {
			if err = service.WithdrawExpiredOffer(conf.MarketAddr, id); err != nil {
				log.Errorf("offer %d sweep failed: %v", id, err)
				continue
			}
			log.Infof("offer %d expired, escrow released", id)
		}
	}
}
