package jobs

import (
	"context"
	"time"

	"WardCare360/config"
	"WardCare360/services"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const jobTimeout = 5 * time.Minute

/*
* Reconcile half-finished discharges and keep wards in step with sections
* Both are safe to run repeatedly
 */
func StartScheduler(cfg *config.Config) (*cron.Cron, error) {
	c, err := NewScheduler(cfg)
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

func NewScheduler(cfg *config.Config) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(cfg.ReconcileSchedule, RunReconcile); err != nil {
		log.Println("Invalid reconcile schedule: ", err)
		return nil, err
	}
	if _, err := c.AddFunc(cfg.WardSyncSchedule, RunWardSync); err != nil {
		log.Println("Invalid ward sync schedule: ", err)
		return nil, err
	}
	return c, nil
}

func RunReconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	report, err := services.ReconcileArchival(ctx)
	if err != nil {
		log.Println("Error while reconciling archival: ", err)
		return
	}
	log.WithField("report", report).Info("archival reconcile finished")
}

func RunWardSync() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	result, err := services.SyncWardsWithSections(ctx)
	if err != nil {
		log.Println("Error while syncing wards: ", err)
		return
	}
	log.WithFields(log.Fields{"created": result.Created, "updated": result.Updated}).Info("ward sync finished")
}
