package service

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

func NewScheduler() gocron.Scheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatal(err)
	}
	return scheduler
}

// ScheduleDispatchTicks runs the dispatcher on a fixed cadence. Tick overlap
// is already guarded inside RunTick, so a slow tick just makes the next one
// report as skipped.
func ScheduleDispatchTicks(
	scheduler gocron.Scheduler,
	dispatcher *Dispatcher,
	interval time.Duration,
) {
	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			summary, err := dispatcher.RunTick(context.Background())
			if err != nil {
				log.Printf("dispatcher tick: %v", err)
				return
			}
			if summary.Processed > 0 {
				log.Printf(
					"dispatcher tick: processed %d, triggered %d, failed %d",
					summary.Processed, summary.Triggered, summary.Failed,
				)
			}
		}),
	); err != nil {
		log.Fatal(err)
	}
}
