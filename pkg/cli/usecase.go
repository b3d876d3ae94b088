package cli

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/cli/config"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/usecase"
)

// buildUseCases wires the configuration file and alarm flags into the use cases
func buildUseCases(repo interfaces.Repository, appCfg *config.App, alarmCfg *config.Alarm, extra ...usecase.Option) (*usecase.UseCases, error) {
	cfg, err := appCfg.Configure()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load configuration")
	}

	opts, err := cfg.UseCaseOptions()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build alarm settings")
	}
	opts = append(opts, alarmCfg.UseCaseOptions()...)
	opts = append(opts, extra...)

	return usecase.New(repo, opts...), nil
}

// evaluationClock pins the use case clock to at. An empty value keeps the system clock.
func evaluationClock(at string) ([]usecase.Option, error) {
	if at == "" {
		return nil, nil
	}

	asOf, err := model.ParseTimestamp(at)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid --at value", goerr.V("at", at))
	}
	return []usecase.Option{
		usecase.WithClock(func() time.Time { return asOf }),
	}, nil
}
