package app

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/d085/storefront/internal/domain"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// initJob starts the housekeeping scheduler. Code expiry is enforced at
// verification time; the daily sweep only keeps dead rows from piling up.
func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	_, err := a.sched.AddFunc("@daily", func() {
		result := a.gormDB.
			Where("expires_at < ?", time.Now()).Delete(&domain.Otp{})
		if result.Error != nil {
			zap.S().Errorf("expired code sweep error %s", result.Error.Error())
		} else if result.RowsAffected > 0 {
			zap.S().Infof("swept %d expired one-time codes", result.RowsAffected)
		}
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}
