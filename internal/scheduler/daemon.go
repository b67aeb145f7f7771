package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"omnitrade/internal/alert"
	"omnitrade/internal/conditional"
	"omnitrade/internal/dca"
	"omnitrade/internal/notifier"
	"omnitrade/internal/portfolio"
	"omnitrade/internal/recorder"
)

// Daemon runs the periodic due-check passes. Jobs are chained behind
// SkipIfStillRunning, so a slow pass delays the next tick instead of
// overlapping it.
type Daemon struct {
	Cron         *cron.Cron
	Alerts       *alert.Manager
	Conditionals *conditional.Manager
	DCA          *dca.Manager
	Valuator     *portfolio.Valuator
	History      *portfolio.History
	Dispatcher   *notifier.Dispatcher
	Recorder     recorder.Recorder
	Ctx          context.Context
}

// NewDaemon creates a Daemon.
func NewDaemon(ctx context.Context, alerts *alert.Manager, conditionals *conditional.Manager,
	dcaMgr *dca.Manager, valuator *portfolio.Valuator, history *portfolio.History,
	dispatcher *notifier.Dispatcher, rec recorder.Recorder) *Daemon {
	return &Daemon{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		Alerts:       alerts,
		Conditionals: conditionals,
		DCA:          dcaMgr,
		Valuator:     valuator,
		History:      history,
		Dispatcher:   dispatcher,
		Recorder:     rec,
		Ctx:          ctx,
	}
}

// Register schedules the due-check and snapshot jobs.
func (d *Daemon) Register(checkCron, snapshotCron string) error {
	if _, err := d.Cron.AddFunc(checkCron, d.CheckPass); err != nil {
		return fmt.Errorf("register check task: %w", err)
	}
	if _, err := d.Cron.AddFunc(snapshotCron, d.SnapshotPass); err != nil {
		return fmt.Errorf("register snapshot task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (d *Daemon) Start() {
	d.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running pass to finish.
func (d *Daemon) Stop() {
	<-d.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// CheckPass runs one complete due-check over all three rule engines.
func (d *Daemon) CheckPass() {
	triggeredAlerts, err := d.Alerts.Check(d.Ctx)
	if err != nil {
		log.Printf("[ERROR] alert check: %v", err)
	}
	for i := range triggeredAlerts {
		a := &triggeredAlerts[i]
		d.notify(notifier.FormatAlert(a))
		if err := d.Recorder.RecordAlert(a, a.TriggeredPrice); err != nil {
			log.Printf("[ERROR] record alert: %v", err)
		}
	}

	firedOrders, err := d.Conditionals.Check(d.Ctx)
	if err != nil {
		log.Printf("[ERROR] conditional check: %v", err)
	}
	for i := range firedOrders {
		d.notify(notifier.FormatConditional(&firedOrders[i]))
	}

	runs, err := d.DCA.ProcessDue(d.Ctx, time.Now())
	if err != nil {
		log.Printf("[ERROR] dca pass: %v", err)
	}
	for i := range runs {
		run := &runs[i]
		d.notify(notifier.FormatDCA(run))
		if err := d.Recorder.RecordDCA(run); err != nil {
			log.Printf("[ERROR] record dca: %v", err)
		}
	}
}

// SnapshotPass values the paper portfolio and appends a history point.
func (d *Daemon) SnapshotPass() {
	summary, err := d.Valuator.Summary(d.Ctx)
	if err != nil {
		log.Printf("[ERROR] portfolio snapshot: %v", err)
		return
	}
	snap := summary.Snapshot(time.Now().UnixMilli(), "paper")
	if err := d.History.Record(snap); err != nil {
		log.Printf("[ERROR] record history: %v", err)
	}
	if err := d.Recorder.RecordSnapshot(&snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
}

func (d *Daemon) notify(text string) {
	if d.Dispatcher == nil {
		return
	}
	for _, result := range d.Dispatcher.Dispatch(d.Ctx, text) {
		if !result.Success {
			log.Printf("[WARN] delivery via %s failed: %s", result.Channel, result.Error)
		}
	}
}
