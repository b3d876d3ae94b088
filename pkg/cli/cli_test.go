package cli_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/caseline/pkg/cli"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"github.com/secmon-lab/caseline/pkg/repository/memory"
	"github.com/secmon-lab/caseline/pkg/usecase"
)

func TestPrintAlarms(t *testing.T) {
	t.Run("no alarms", func(t *testing.T) {
		var buf bytes.Buffer
		cli.PrintAlarmsForTest(&buf, nil)
		gt.S(t, buf.String()).Contains("No cases in alarm")
	})

	t.Run("prints each case", func(t *testing.T) {
		ref := time.Date(2026, 9, 23, 10, 0, 0, 0, time.UTC)
		rule := model.AlarmRules()[2]
		alarms := []*usecase.CaseAlarm{
			{
				Case: &model.Case{ID: 42, Title: "Broken compressor", Status: types.CaseStatusReadyForPickup},
				Result: &model.AlarmResult{
					CaseID:      42,
					Status:      types.CaseStatusReadyForPickup,
					InAlarm:     true,
					Rule:        &rule,
					ElapsedDays: 15,
					ReferenceAt: ref,
				},
				Message: "Case 42 has been ready_for_pickup for 15 business days (limit 14)",
			},
		}

		var buf bytes.Buffer
		cli.PrintAlarmsForTest(&buf, alarms)

		out := buf.String()
		gt.S(t, out).Contains("1 case(s) in alarm")
		gt.S(t, out).Contains("#42")
		gt.S(t, out).Contains("Broken compressor")
		gt.S(t, out).Contains("elapsed=15 limit=14")
		gt.S(t, out).Contains("since=2026-09-23")
	})
}

func TestGetIndexConfig(t *testing.T) {
	t.Run("default collections", func(t *testing.T) {
		cfg := cli.GetIndexConfigForTest("")
		gt.Array(t, cfg.Collections).Length(2)
		gt.Value(t, cfg.Collections[0].Name).Equal("status_history")
		gt.Value(t, cfg.Collections[1].Name).Equal("cases")

		fields := cfg.Collections[0].Indexes[0].Fields
		gt.Array(t, fields).Length(2)
		gt.Value(t, fields[0].Path).Equal("case_id")
		gt.Value(t, fields[1].Order).Equal(fireconf.OrderDescending)
	})

	t.Run("prefixed collections", func(t *testing.T) {
		cfg := cli.GetIndexConfigForTest("staging")
		gt.Value(t, cfg.Collections[0].Name).Equal("staging_status_history")
		gt.Value(t, cfg.Collections[1].Name).Equal("staging_cases")
	})
}

func TestRun_Check(t *testing.T) {
	t.Run("empty memory repository has no alarms", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"caseline", "--log-level", "error", "check", "--fail-on-alarm"}, "test")
		gt.NoError(t, err)
	})

	t.Run("evaluation instant can be pinned", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"caseline", "--log-level", "error", "check", "--at", "2026-10-14 10:00:00", "--fail-on-alarm"}, "test")
		gt.NoError(t, err)
	})

	t.Run("malformed evaluation instant", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"caseline", "--log-level", "error", "check", "--at", "14/10/2026"}, "test")
		gt.Error(t, err).Is(model.ErrInvalidTimestamp)
	})

	t.Run("invalid log level", func(t *testing.T) {
		err := cli.Run(t.Context(), []string{"caseline", "--log-level", "loud", "check"}, "test")
		gt.Error(t, err)
	})
}

func TestEvaluationClock(t *testing.T) {
	t.Run("empty keeps the system clock", func(t *testing.T) {
		opts, err := cli.EvaluationClockForTest("")
		gt.NoError(t, err).Required()
		gt.Array(t, opts).Length(0)
	})

	t.Run("pinned instant drives alarm evaluation", func(t *testing.T) {
		opts, err := cli.EvaluationClockForTest("2026-10-14T10:00:00Z")
		gt.NoError(t, err).Required()
		gt.Array(t, opts).Length(1)

		repo := memory.New()
		created := time.Date(2026, 10, 7, 10, 0, 0, 0, time.UTC)
		c, err := repo.Case().Create(t.Context(), &model.Case{
			Title:     "Fast repair",
			Status:    types.CaseStatusCreated,
			Priority:  types.CasePriorityFourDaysFastTrack,
			CreatedAt: created,
		})
		gt.NoError(t, err).Required()

		uc := usecase.New(repo, opts...)
		inAlarm, err := uc.Alarm.IsCaseInAlarm(t.Context(), c.ID)
		gt.NoError(t, err).Required()
		gt.B(t, inAlarm).True()
	})

	t.Run("malformed instant", func(t *testing.T) {
		_, err := cli.EvaluationClockForTest("yesterday")
		gt.Error(t, err).Is(model.ErrInvalidTimestamp)
	})
}
