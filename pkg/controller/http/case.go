package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"github.com/secmon-lab/caseline/pkg/usecase"
)

// maxRequestBodySize limits JSON request bodies
const maxRequestBodySize = 1 << 20

type createCaseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	CustomerName string `json:"customer_name"`
	Priority     string `json:"priority"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

func caseIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(errBadRequest, "invalid case ID", goerr.V("id", raw))
	}
	return id, nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return goerr.Wrap(errBadRequest, "invalid request body", goerr.V("error", err.Error()))
	}
	return nil
}

func (s *Server) listCasesHandler(w http.ResponseWriter, r *http.Request) {
	var opts []interfaces.ListCaseOption
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := types.ParseCaseStatus(raw)
		if err != nil {
			writeError(w, r, goerr.Wrap(usecase.ErrInvalidStatus, "invalid status filter", goerr.V(usecase.StatusKey, raw)))
			return
		}
		opts = append(opts, interfaces.WithStatus(status))
	}

	cases, err := s.caseUC.ListCases(r.Context(), opts...)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]caseResponse, len(cases))
	for i, c := range cases {
		resp[i] = toCaseResponse(c)
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) createCaseHandler(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.caseUC.CreateCase(r.Context(), req.Title, req.Description, req.CustomerName, types.CasePriority(req.Priority))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, toCaseResponse(created))
}

func (s *Server) getCaseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := caseIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	c, err := s.caseUC.GetCase(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCaseResponse(c))
}

func (s *Server) deleteCaseHandler(w http.ResponseWriter, r *http.Request) {
	id, err := caseIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := s.caseUC.DeleteCase(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) changeStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := caseIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req changeStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.caseUC.ChangeStatus(r.Context(), id, types.CaseStatus(req.Status))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, toCaseResponse(updated))
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := caseIDParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	history, err := s.caseUC.GetStatusHistory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]historyEntryResponse, len(history))
	for i, h := range history {
		resp[i] = historyEntryResponse{
			ID:        string(h.ID),
			Status:    h.Status.String(),
			CreatedAt: h.CreatedAt,
		}
	}
	writeJSON(w, r, http.StatusOK, resp)
}
