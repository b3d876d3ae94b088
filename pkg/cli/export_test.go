package cli

import (
	"io"

	"github.com/m-mizutani/fireconf"
	"github.com/secmon-lab/caseline/pkg/usecase"
)

// PrintAlarmsForTest is exported for testing
func PrintAlarmsForTest(w io.Writer, alarms []*usecase.CaseAlarm) {
	printAlarms(w, alarms)
}

// EvaluationClockForTest is exported for testing
func EvaluationClockForTest(at string) ([]usecase.Option, error) {
	return evaluationClock(at)
}

// GetIndexConfigForTest is exported for testing
func GetIndexConfigForTest(prefix string) *fireconf.Config {
	return getIndexConfig(prefix)
}
