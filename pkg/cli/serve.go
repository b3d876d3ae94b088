package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/cli/config"
	httpctrl "github.com/secmon-lab/caseline/pkg/controller/http"
	"github.com/secmon-lab/caseline/pkg/service/slack"
	"github.com/secmon-lab/caseline/pkg/service/worker"
	"github.com/secmon-lab/caseline/pkg/utils/logging"
	"github.com/secmon-lab/caseline/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe(version string) *cli.Command {
	var addr string
	var requestTimeout time.Duration
	var appCfg config.App
	var repoCfg config.Repository
	var slackCfg config.Slack
	var sentryCfg config.Sentry
	var alarmCfg config.Alarm

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("CASELINE_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "request-timeout",
			Usage:       "Timeout of a single HTTP request",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("CASELINE_REQUEST_TIMEOUT"),
			Destination: &requestTimeout,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)
	flags = append(flags, alarmCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.Default().Info("Serve configuration",
				"config", appCfg,
				"slack", slackCfg,
				"sentry", sentryCfg,
				"alarm", alarmCfg,
			)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return err
			}
			defer flush()

			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc, err := buildUseCases(repo, &appCfg, &alarmCfg)
			if err != nil {
				return err
			}

			// Start alarm scan worker unless disabled
			var scanWorker *worker.AlarmScanWorker
			if alarmCfg.ScanEnabled() {
				slackSvc, err := slackCfg.Configure()
				if err != nil {
					return err
				}

				var notifier worker.AlarmNotifier = worker.LogAlarmNotifier{}
				if slackSvc != nil {
					channelName, err := slack.ResolveChannelName(ctx, slackSvc, slackCfg.AlarmChannel())
					if err != nil {
						return goerr.Wrap(err, "failed to verify --slack-alarm-channel")
					}
					notifier = worker.NewSlackAlarmNotifier(slackSvc, slackCfg.AlarmChannel())
					logging.Default().Info("Slack alarm notices enabled",
						"channel", slackCfg.AlarmChannel(),
						"channel_name", channelName)
				} else {
					logging.Default().Info("Slack not configured, alarm notices go to the log")
				}

				scanWorker = worker.NewAlarmScanWorker(uc.Alarm, notifier, alarmCfg.ScanInterval())
				if err := scanWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start alarm scan worker")
				}
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc.Case, uc.Alarm, httpctrl.WithRequestTimeout(requestTimeout)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				if scanWorker != nil {
					scanWorker.Stop()
				}
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				// Stop alarm scan worker first
				if scanWorker != nil {
					scanWorker.Stop()
				}

				// Create shutdown context with timeout
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				// Attempt graceful shutdown
				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
