package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/utils/errutil"
	"golang.org/x/sync/errgroup"
)

const (
	defaultHistoryBatchSize   = 100
	defaultHistoryConcurrency = 4
)

// CaseAlarm is the alarm state of a case. Message is empty when the case is not in alarm.
type CaseAlarm struct {
	Case    *model.Case
	Result  *model.AlarmResult
	Message string
}

type AlarmUseCase struct {
	repo        interfaces.Repository
	evaluator   *model.AlarmEvaluator
	messages    *model.AlarmMessages
	clock       Clock
	strictBatch bool
	batchSize   int
	concurrency int
}

type AlarmOption func(*AlarmUseCase)

func WithAlarmClock(clock Clock) AlarmOption {
	return func(uc *AlarmUseCase) {
		if clock != nil {
			uc.clock = clock
		}
	}
}

func WithStrictAlarmBatch(strict bool) AlarmOption {
	return func(uc *AlarmUseCase) {
		uc.strictBatch = strict
	}
}

// WithHistoryBatch sets how many cases are loaded per history query and how many queries run at once
func WithHistoryBatch(size, concurrency int) AlarmOption {
	return func(uc *AlarmUseCase) {
		if size > 0 {
			uc.batchSize = size
		}
		if concurrency > 0 {
			uc.concurrency = concurrency
		}
	}
}

// NewAlarmUseCase creates an AlarmUseCase. A nil evaluator counts business days in UTC and
// nil messages use the default English templates.
func NewAlarmUseCase(repo interfaces.Repository, evaluator *model.AlarmEvaluator, messages *model.AlarmMessages, opts ...AlarmOption) *AlarmUseCase {
	if evaluator == nil {
		evaluator = model.NewAlarmEvaluator(model.NewCalendar(time.UTC))
	}
	if messages == nil {
		messages = model.DefaultAlarmMessages()
	}

	uc := &AlarmUseCase{
		repo:        repo,
		evaluator:   evaluator,
		messages:    messages,
		clock:       time.Now,
		batchSize:   defaultHistoryBatchSize,
		concurrency: defaultHistoryConcurrency,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

func (uc *AlarmUseCase) IsCaseInAlarm(ctx context.Context, id int64) (bool, error) {
	alarm, err := uc.EvaluateCase(ctx, id)
	if err != nil {
		return false, err
	}
	return alarm.Result.InAlarm, nil
}

// GetAlarmMessage returns the alarm explanation of a case, or "" when it is not in alarm
func (uc *AlarmUseCase) GetAlarmMessage(ctx context.Context, id int64) (string, error) {
	alarm, err := uc.EvaluateCase(ctx, id)
	if err != nil {
		return "", err
	}
	return alarm.Message, nil
}

// EvaluateCase evaluates one case. The verdict and the message come from the same evaluation.
func (uc *AlarmUseCase) EvaluateCase(ctx context.Context, id int64) (*CaseAlarm, error) {
	c, err := getCase(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	history, err := uc.repo.StatusHistory().ListByCase(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list status history", goerr.V(CaseIDKey, id))
	}

	now := uc.clock()
	result, err := uc.evaluator.Evaluate(*c, history, now)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to evaluate case alarm", goerr.V(CaseIDKey, id))
	}

	return &CaseAlarm{
		Case:    c,
		Result:  result,
		Message: uc.messages.Format(result),
	}, nil
}

// ListCasesInAlarm returns every case currently in alarm, ordered by case ID.
// All cases are evaluated against the same instant. Cases that cannot be
// evaluated are logged and skipped unless strict batch mode is enabled.
func (uc *AlarmUseCase) ListCasesInAlarm(ctx context.Context) ([]*CaseAlarm, error) {
	now := uc.clock()

	cases, err := uc.repo.Case().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list cases")
	}

	histories, err := uc.loadHistories(ctx, cases)
	if err != nil {
		return nil, err
	}

	snapshots := make([]model.CaseSnapshot, len(cases))
	byID := make(map[int64]*model.Case, len(cases))
	for i, c := range cases {
		snapshots[i] = model.CaseSnapshot{Case: *c, History: histories[c.ID]}
		byID[c.ID] = c
	}

	results, err := uc.evaluator.FilterInAlarm(snapshots, now)
	if err != nil {
		if uc.strictBatch {
			return nil, goerr.Wrap(err, "failed to evaluate case alarms")
		}
		_ = errutil.Handle(ctx, err, "skipped cases that could not be evaluated")
	}

	alarms := make([]*CaseAlarm, 0, len(results))
	for _, result := range results {
		alarms = append(alarms, &CaseAlarm{
			Case:    byID[result.CaseID],
			Result:  result,
			Message: uc.messages.Format(result),
		})
	}

	return alarms, nil
}

func (uc *AlarmUseCase) loadHistories(ctx context.Context, cases []*model.Case) (map[int64][]model.StatusHistoryEntry, error) {
	ids := make([]int64, len(cases))
	for i, c := range cases {
		ids[i] = c.ID
	}

	var mu sync.Mutex
	histories := make(map[int64][]model.StatusHistoryEntry, len(ids))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(uc.concurrency)

	for start := 0; start < len(ids); start += uc.batchSize {
		end := min(start+uc.batchSize, len(ids))
		batch := ids[start:end]

		eg.Go(func() error {
			loaded, err := uc.repo.StatusHistory().ListByCases(ctx, batch)
			if err != nil {
				return goerr.Wrap(err, "failed to load status history", goerr.V("batch_size", len(batch)))
			}

			mu.Lock()
			defer mu.Unlock()
			for id, entries := range loaded {
				histories[id] = entries
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return histories, nil
}
