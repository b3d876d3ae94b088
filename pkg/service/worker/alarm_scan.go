package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/secmon-lab/caseline/pkg/utils/logging"
)

// AlarmLister lists the cases currently in alarm
type AlarmLister interface {
	ListCasesInAlarm(ctx context.Context) ([]*usecase.CaseAlarm, error)
}

// AlarmNotifier delivers one alarm notice
type AlarmNotifier interface {
	NotifyAlarm(ctx context.Context, alarm *usecase.CaseAlarm) error
}

// alarmKey identifies one breach of a case. A case re-entering the same
// status gets a new reference instant and therefore a new key.
type alarmKey struct {
	rule        model.AlarmRuleID
	referenceAt int64
}

func keyOf(alarm *usecase.CaseAlarm) alarmKey {
	key := alarmKey{referenceAt: alarm.Result.ReferenceAt.UnixNano()}
	if alarm.Result.Rule != nil {
		key.rule = alarm.Result.Rule.ID
	}
	return key
}

// AlarmScanWorker periodically lists cases in alarm and notifies each breach once
//
// Architecture assumptions:
// - Single server instance (dedup state is kept in memory)
// - A restart notifies every open breach again
type AlarmScanWorker struct {
	alarms   AlarmLister
	notifier AlarmNotifier
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}

	mu       sync.Mutex
	notified map[int64]alarmKey
}

// NewAlarmScanWorker creates a new worker scanning for alarms every interval
func NewAlarmScanWorker(alarms AlarmLister, notifier AlarmNotifier, interval time.Duration) *AlarmScanWorker {
	return &AlarmScanWorker{
		alarms:   alarms,
		notifier: notifier,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		notified: make(map[int64]alarmKey),
	}
}

// Start begins the background scan loop
// - The first scan runs in the background goroutine
// - Does not block server startup
func (w *AlarmScanWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return goerr.New("alarm scan interval must be positive", goerr.V("interval", w.interval))
	}

	logging.Default().Info("Alarm scan worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *AlarmScanWorker) Stop() {
	logging.Default().Info("Alarm scan worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Alarm scan worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *AlarmScanWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.scan(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.scan(ctx)

		case <-w.stopCh:
			logging.Default().Info("Alarm scan worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Alarm scan worker context cancelled")
			return
		}
	}
}

func (w *AlarmScanWorker) scan(ctx context.Context) {
	if _, err := w.ScanOnce(ctx); err != nil {
		// Log error but continue worker
		logging.Default().Error("Alarm scan failed (will retry next interval)",
			"error", err.Error())
	}
}

// ScanOnce performs a single scan and returns the number of notices sent.
// Failed notices are not remembered, so they are retried by the next scan.
func (w *AlarmScanWorker) ScanOnce(ctx context.Context) (int, error) {
	startTime := time.Now()

	alarms, err := w.alarms.ListCasesInAlarm(ctx)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list cases in alarm")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	current := make(map[int64]struct{}, len(alarms))
	var errs []error
	sent := 0

	for _, alarm := range alarms {
		id := alarm.Case.ID
		current[id] = struct{}{}

		key := keyOf(alarm)
		if prev, ok := w.notified[id]; ok && prev == key {
			continue
		}

		if err := w.notifier.NotifyAlarm(ctx, alarm); err != nil {
			errs = append(errs, goerr.Wrap(err, "failed to notify alarm", goerr.V(usecase.CaseIDKey, id)))
			continue
		}

		w.notified[id] = key
		sent++
	}

	// Cases that left alarm may notify again on their next breach
	for id := range w.notified {
		if _, ok := current[id]; !ok {
			delete(w.notified, id)
		}
	}

	logging.Default().Info("Alarm scan completed",
		"in_alarm", len(alarms),
		"notified", sent,
		"duration", time.Since(startTime).String())

	return sent, errors.Join(errs...)
}
