package usecase

import (
	"time"

	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
)

// Clock returns the current instant. Use cases read it once per operation.
type Clock func() time.Time

type UseCases struct {
	repo        interfaces.Repository
	clock       Clock
	calendar    model.Calendar
	messages    *model.AlarmMessages
	strictBatch bool
	Case        *CaseUseCase
	Alarm       *AlarmUseCase
}

type Option func(*UseCases)

func WithClock(clock Clock) Option {
	return func(uc *UseCases) {
		uc.clock = clock
	}
}

func WithCalendar(calendar model.Calendar) Option {
	return func(uc *UseCases) {
		uc.calendar = calendar
	}
}

func WithAlarmMessages(messages *model.AlarmMessages) Option {
	return func(uc *UseCases) {
		uc.messages = messages
	}
}

// WithStrictBatch makes ListCasesInAlarm fail on the first case that cannot be evaluated
func WithStrictBatch(strict bool) Option {
	return func(uc *UseCases) {
		uc.strictBatch = strict
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:     repo,
		clock:    time.Now,
		calendar: model.NewCalendar(time.UTC),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Case = NewCaseUseCase(repo, uc.clock)
	uc.Alarm = NewAlarmUseCase(repo, model.NewAlarmEvaluator(uc.calendar), uc.messages,
		WithAlarmClock(uc.clock),
		WithStrictAlarmBatch(uc.strictBatch),
	)

	return uc
}
