package http

import (
	"net/http"
)

func (s *Server) alarmHandler(w http.ResponseWriter, r *http.Request) {
	id, err := caseIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	alarm, err := s.alarmUC.EvaluateCase(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toAlarmResponse(alarm))
}

func (s *Server) listAlarmsHandler(w http.ResponseWriter, r *http.Request) {
	alarms, err := s.alarmUC.ListCasesInAlarm(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]caseAlarmResponse, len(alarms))
	for i, a := range alarms {
		resp[i] = caseAlarmResponse{
			Case:  toCaseResponse(a.Case),
			Alarm: toAlarmResponse(a),
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
