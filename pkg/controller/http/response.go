package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/secmon-lab/caseline/pkg/utils/errutil"
	"github.com/secmon-lab/caseline/pkg/utils/safe"
)

// errBadRequest marks malformed client input such as broken JSON or a non-numeric ID
var errBadRequest = errors.New("bad request")

type caseResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	CustomerName string    `json:"customer_name"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toCaseResponse(c *model.Case) caseResponse {
	return caseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		CustomerName: c.CustomerName,
		Status:       c.Status.String(),
		Priority:     c.Priority.Normalize().String(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type historyEntryResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type alarmResponse struct {
	CaseID      int64      `json:"case_id"`
	InAlarm     bool       `json:"in_alarm"`
	Message     string     `json:"message"`
	Rule        string     `json:"rule,omitempty"`
	ElapsedDays int        `json:"elapsed_days"`
	Limit       int        `json:"limit"`
	ReferenceAt *time.Time `json:"reference_at,omitempty"`
	EvaluatedAt time.Time  `json:"evaluated_at"`
}

func toAlarmResponse(alarm *usecase.CaseAlarm) alarmResponse {
	resp := alarmResponse{
		CaseID:      alarm.Case.ID,
		InAlarm:     alarm.Result.InAlarm,
		Message:     alarm.Message,
		ElapsedDays: alarm.Result.ElapsedDays,
		Limit:       alarm.Result.Limit(),
		EvaluatedAt: alarm.Result.EvaluatedAt,
	}
	if alarm.Result.Rule != nil {
		resp.Rule = string(alarm.Result.Rule.ID)
		ref := alarm.Result.ReferenceAt
		resp.ReferenceAt = &ref
	}
	return resp
}

type caseAlarmResponse struct {
	Case  caseResponse  `json:"case"`
	Alarm alarmResponse `json:"alarm"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// statusCodeOf maps use case and domain errors to HTTP status codes
func statusCodeOf(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, usecase.ErrTitleRequired),
		errors.Is(err, usecase.ErrInvalidStatus),
		errors.Is(err, usecase.ErrInvalidPriority):
		return http.StatusBadRequest
	case errors.Is(err, usecase.ErrCaseNotFound):
		return http.StatusNotFound
	case errors.Is(err, usecase.ErrStatusUnchanged):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidTimestamp):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusCodeOf(err))
}
