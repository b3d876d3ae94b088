package model

import (
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/types"
)

// AlarmRuleID identifies which SLA rule fired
type AlarmRuleID string

const (
	AlarmRuleFastTrack       AlarmRuleID = "fast_track"
	AlarmRuleInProgress      AlarmRuleID = "in_progress"
	AlarmRuleReadyForPickup  AlarmRuleID = "ready_for_pickup"
	AlarmRuleWaitingCustomer AlarmRuleID = "waiting_customer"
)

// ReferenceSource tells where the elapsed time of a rule is measured from
type ReferenceSource string

const (
	// ReferenceCreation measures from the case creation instant
	ReferenceCreation ReferenceSource = "creation"
	// ReferenceStatusHistory measures from the latest transition into the current status
	ReferenceStatusHistory ReferenceSource = "status_history"
)

// AlarmRule is a business-day deadline. A case breaches the rule when the
// elapsed business days are strictly greater than Threshold.
type AlarmRule struct {
	ID        AlarmRuleID
	Status    types.CaseStatus
	Threshold int
	Reference ReferenceSource
}

var (
	fastTrackRule = AlarmRule{
		ID:        AlarmRuleFastTrack,
		Status:    types.CaseStatusCreated,
		Threshold: 4,
		Reference: ReferenceCreation,
	}
	inProgressRule = AlarmRule{
		ID:        AlarmRuleInProgress,
		Status:    types.CaseStatusInProgress,
		Threshold: 1,
		Reference: ReferenceStatusHistory,
	}
	readyForPickupRule = AlarmRule{
		ID:        AlarmRuleReadyForPickup,
		Status:    types.CaseStatusReadyForPickup,
		Threshold: 14,
		Reference: ReferenceStatusHistory,
	}
	waitingCustomerRule = AlarmRule{
		ID:        AlarmRuleWaitingCustomer,
		Status:    types.CaseStatusWaitingCustomer,
		Threshold: 14,
		Reference: ReferenceStatusHistory,
	}
)

// AlarmRules returns every rule, the fast-track override first
func AlarmRules() []AlarmRule {
	return []AlarmRule{
		fastTrackRule,
		inProgressRule,
		readyForPickupRule,
		waitingCustomerRule,
	}
}

// statusRule returns the per-status rule. Every CaseStatus constant has an
// explicit branch, so a new status must be placed in one of them; decided
// is false only for values outside the enumeration.
func statusRule(status types.CaseStatus) (rule *AlarmRule, decided bool) {
	switch status {
	case types.CaseStatusInProgress:
		r := inProgressRule
		return &r, true
	case types.CaseStatusReadyForPickup:
		r := readyForPickupRule
		return &r, true
	case types.CaseStatusWaitingCustomer:
		r := waitingCustomerRule
		return &r, true

	// Alarm exempt
	case types.CaseStatusCreated,
		types.CaseStatusOfferCreated,
		types.CaseStatusOfferAccepted,
		types.CaseStatusOfferRejected,
		types.CaseStatusWaitingParts,
		types.CaseStatusPreparingDelivery,
		types.CaseStatusCompleted,
		types.CaseStatusCancelled:
		return nil, true

	default:
		return nil, false
	}
}

// HasAlarmDecision reports whether status has an explicit alarm decision,
// either a rule or an exemption
func HasAlarmDecision(status types.CaseStatus) bool {
	_, decided := statusRule(status)
	return decided
}

// selectRule picks the rule for c. The fast-track override is checked first
// and bypasses the per-status table.
func selectRule(c Case) *AlarmRule {
	if c.IsFastTrack() && c.Status == types.CaseStatusCreated {
		r := fastTrackRule
		return &r
	}
	rule, _ := statusRule(c.Status)
	return rule
}

// CaseSnapshot is a case together with its status history, as read from storage
type CaseSnapshot struct {
	Case    Case
	History []StatusHistoryEntry
}

// AlarmResult is the outcome of one evaluation
type AlarmResult struct {
	CaseID      int64
	Status      types.CaseStatus
	InAlarm     bool
	Rule        *AlarmRule // nil when no rule applies to the case
	ElapsedDays int
	ReferenceAt time.Time
	EvaluatedAt time.Time
}

// Limit returns the threshold of the applied rule, or 0 when none applies
func (r *AlarmResult) Limit() int {
	if r == nil || r.Rule == nil {
		return 0
	}
	return r.Rule.Threshold
}

// AlarmEvaluator decides SLA breaches. It holds no mutable state and is safe
// for concurrent use.
type AlarmEvaluator struct {
	calendar Calendar
}

// NewAlarmEvaluator creates an evaluator counting business days with calendar
func NewAlarmEvaluator(calendar Calendar) *AlarmEvaluator {
	return &AlarmEvaluator{calendar: calendar}
}

// Calendar returns the business-day calendar used by the evaluator
func (e *AlarmEvaluator) Calendar() Calendar {
	return e.calendar
}

// Evaluate decides whether c is in alarm at now. Elapsed time is measured
// from the case creation for the fast-track rule and from the latest
// transition into the current status otherwise. Statuses without a rule,
// including unknown ones, never breach.
func (e *AlarmEvaluator) Evaluate(c Case, history []StatusHistoryEntry, now time.Time) (*AlarmResult, error) {
	if err := validateTimestamps(c, history, now); err != nil {
		return nil, err
	}

	result := &AlarmResult{
		CaseID:      c.ID,
		Status:      c.Status,
		EvaluatedAt: now,
	}

	rule := selectRule(c)
	if rule == nil {
		return result, nil
	}

	ref := c.CreatedAt
	if rule.Reference == ReferenceStatusHistory {
		ref = ResolveReferenceInstant(c.Status, c.CreatedAt, history)
	}

	result.Rule = rule
	result.ReferenceAt = ref
	result.ElapsedDays = e.calendar.BusinessDaysBetween(ref, now)
	result.InAlarm = result.ElapsedDays > rule.Threshold

	return result, nil
}

// IsCaseInAlarm is a shorthand of Evaluate returning only the verdict
func (e *AlarmEvaluator) IsCaseInAlarm(c Case, history []StatusHistoryEntry, now time.Time) (bool, error) {
	result, err := e.Evaluate(c, history, now)
	if err != nil {
		return false, err
	}
	return result.InAlarm, nil
}

// FilterInAlarm evaluates every snapshot against the same now and returns the
// results that are in alarm, in input order. Cases that fail evaluation are
// reported through the joined error while the remaining results are still
// returned.
func (e *AlarmEvaluator) FilterInAlarm(snapshots []CaseSnapshot, now time.Time) ([]*AlarmResult, error) {
	var alarms []*AlarmResult
	var errs []error

	for _, s := range snapshots {
		result, err := e.Evaluate(s.Case, s.History, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if result.InAlarm {
			alarms = append(alarms, result)
		}
	}

	return alarms, errors.Join(errs...)
}

func validateTimestamps(c Case, history []StatusHistoryEntry, now time.Time) error {
	if now.IsZero() {
		return goerr.Wrap(ErrInvalidTimestamp, "evaluation time is not set", goerr.V(CaseIDKey, c.ID))
	}
	if c.CreatedAt.IsZero() {
		return goerr.Wrap(ErrInvalidTimestamp, "case creation time is not set", goerr.V(CaseIDKey, c.ID))
	}
	for _, h := range history {
		if h.CreatedAt.IsZero() {
			return goerr.Wrap(ErrInvalidTimestamp, "status history time is not set",
				goerr.V(CaseIDKey, c.ID),
				goerr.V(HistoryEntryIDKey, h.ID))
		}
	}
	return nil
}
