package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/cli/config"
	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/secmon-lab/caseline/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// ErrCasesInAlarm is returned by check with --fail-on-alarm when any case breached its deadline
var ErrCasesInAlarm = goerr.New("cases in alarm")

func cmdCheck(version string) *cli.Command {
	var failOnAlarm bool
	var at string
	var appCfg config.App
	var repoCfg config.Repository
	var sentryCfg config.Sentry
	var alarmCfg config.Alarm

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "fail-on-alarm",
			Usage:       "Exit with non-zero status when any case is in alarm",
			Sources:     cli.EnvVars("CASELINE_FAIL_ON_ALARM"),
			Destination: &failOnAlarm,
		},
		&cli.StringFlag{
			Name:        "at",
			Usage:       "Evaluate alarms as of this instant (RFC3339 or \"2006-01-02 15:04:05\" in UTC) instead of now",
			Destination: &at,
		},
	}
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, alarmCfg.Flags()...)

	return &cli.Command{
		Name:    "check",
		Aliases: []string{"c"},
		Usage:   "List cases that are currently in alarm",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			clockOpts, err := evaluationClock(at)
			if err != nil {
				return err
			}

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc, err := buildUseCases(repo, &appCfg, &alarmCfg, clockOpts...)
			if err != nil {
				return err
			}

			alarms, err := uc.Alarm.ListCasesInAlarm(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list cases in alarm")
			}

			printAlarms(os.Stdout, alarms)

			if failOnAlarm && len(alarms) > 0 {
				return goerr.Wrap(ErrCasesInAlarm, "alarm check failed", goerr.V("count", len(alarms)))
			}
			return nil
		},
	}
}

func printAlarms(w io.Writer, alarms []*usecase.CaseAlarm) {
	if len(alarms) == 0 {
		_, _ = color.New(color.FgGreen).Fprintln(w, "No cases in alarm")
		return
	}

	header := color.New(color.FgRed, color.Bold)
	id := color.New(color.FgHiWhite, color.Bold)
	detail := color.New(color.FgYellow)

	_, _ = header.Fprintf(w, "%d case(s) in alarm\n", len(alarms))
	for _, alarm := range alarms {
		_, _ = id.Fprintf(w, "#%d", alarm.Case.ID)
		_, _ = fmt.Fprintf(w, " %s\n", alarm.Case.Title)
		_, _ = fmt.Fprintf(w, "  %s\n", alarm.Message)
		if alarm.Result != nil && alarm.Result.Rule != nil {
			_, _ = detail.Fprintf(w, "  rule=%s status=%s elapsed=%d limit=%d since=%s\n",
				alarm.Result.Rule.ID,
				alarm.Result.Status,
				alarm.Result.ElapsedDays,
				alarm.Result.Limit(),
				alarm.Result.ReferenceAt.Format("2006-01-02"),
			)
		}
	}
}
