package model

import (
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// AlarmMessageFallback is the template key used when no rule template applies
const AlarmMessageFallback = "fallback"

var defaultAlarmTemplates = map[string]string{
	string(AlarmRuleFastTrack):       "Fast-track case {{.CaseID}} is still {{.Status}} after {{.Elapsed}} business days (limit {{.Limit}})",
	string(AlarmRuleInProgress):      "Case {{.CaseID}} has been {{.Status}} for {{.Elapsed}} business days (limit {{.Limit}})",
	string(AlarmRuleReadyForPickup):  "Case {{.CaseID}} has been {{.Status}} for {{.Elapsed}} business days (limit {{.Limit}})",
	string(AlarmRuleWaitingCustomer): "Case {{.CaseID}} has been {{.Status}} for {{.Elapsed}} business days without customer reply (limit {{.Limit}})",
	AlarmMessageFallback:             "Case {{.CaseID}} is in alarm ({{.Status}})",
}

// AlarmMessageKeys returns the template keys accepted by NewAlarmMessages
func AlarmMessageKeys() []string {
	keys := make([]string, 0, len(defaultAlarmTemplates))
	for _, rule := range AlarmRules() {
		keys = append(keys, string(rule.ID))
	}
	return append(keys, AlarmMessageFallback)
}

// alarmMessageData is the data passed to message templates
type alarmMessageData struct {
	CaseID  int64
	Status  string
	Elapsed int
	Limit   int
}

// AlarmMessages renders explanations for breached cases
type AlarmMessages struct {
	templates map[string]*template.Template
}

// DefaultAlarmMessages returns the built-in English messages
func DefaultAlarmMessages() *AlarmMessages {
	m, err := NewAlarmMessages(nil)
	if err != nil {
		panic(fmt.Sprintf("default alarm messages are broken: %v", err))
	}
	return m
}

// NewAlarmMessages builds messages from the defaults with overrides applied.
// Keys must be one of AlarmMessageKeys. Each template is test-rendered so
// references to unknown fields fail here instead of at alarm time.
func NewAlarmMessages(overrides map[string]string) (*AlarmMessages, error) {
	sources := make(map[string]string, len(defaultAlarmTemplates))
	for k, v := range defaultAlarmTemplates {
		sources[k] = v
	}
	for k, v := range overrides {
		if _, ok := defaultAlarmTemplates[k]; !ok {
			return nil, goerr.Wrap(ErrInvalidAlarmConfig, "unknown alarm message key", goerr.V(MessageKeyKey, k))
		}
		if strings.TrimSpace(v) == "" {
			return nil, goerr.Wrap(ErrInvalidAlarmConfig, "alarm message template is empty", goerr.V(MessageKeyKey, k))
		}
		sources[k] = v
	}

	sample := alarmMessageData{CaseID: 1, Status: "created", Elapsed: 5, Limit: 4}
	m := &AlarmMessages{templates: make(map[string]*template.Template, len(sources))}
	for k, src := range sources {
		tmpl, err := template.New(k).Parse(src)
		if err != nil {
			return nil, goerr.Wrap(ErrInvalidAlarmConfig, "failed to parse alarm message template",
				goerr.V(MessageKeyKey, k),
				goerr.V("error", err.Error()))
		}
		if err := tmpl.Execute(&strings.Builder{}, sample); err != nil {
			return nil, goerr.Wrap(ErrInvalidAlarmConfig, "failed to render alarm message template",
				goerr.V(MessageKeyKey, k),
				goerr.V("error", err.Error()))
		}
		m.templates[k] = tmpl
	}

	return m, nil
}

// Format returns the explanation for result, or "" when it is not in alarm.
// An alarm without a known rule renders the fallback message.
func (m *AlarmMessages) Format(result *AlarmResult) string {
	if result == nil || !result.InAlarm {
		return ""
	}

	data := alarmMessageData{
		CaseID:  result.CaseID,
		Status:  result.Status.String(),
		Elapsed: result.ElapsedDays,
		Limit:   result.Limit(),
	}

	if result.Rule != nil {
		if tmpl, ok := m.templates[string(result.Rule.ID)]; ok {
			if msg, err := render(tmpl, data); err == nil {
				return msg
			}
		}
	}

	if msg, err := render(m.templates[AlarmMessageFallback], data); err == nil {
		return msg
	}
	return fmt.Sprintf("Case %d is in alarm", result.CaseID)
}

func render(tmpl *template.Template, data alarmMessageData) (string, error) {
	if tmpl == nil {
		return "", goerr.New("template is not defined")
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FormatAlarmMessage evaluates c at now and renders its message, so the
// verdict and the text come from the same elapsed-day value.
func FormatAlarmMessage(evaluator *AlarmEvaluator, messages *AlarmMessages, c Case, history []StatusHistoryEntry, now time.Time) (string, error) {
	result, err := evaluator.Evaluate(c, history, now)
	if err != nil {
		return "", err
	}
	return messages.Format(result), nil
}
