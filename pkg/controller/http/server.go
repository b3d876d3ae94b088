package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/caseline/pkg/domain/interfaces"
	"github.com/secmon-lab/caseline/pkg/domain/model"
	"github.com/secmon-lab/caseline/pkg/domain/types"
	"github.com/secmon-lab/caseline/pkg/usecase"
	"github.com/secmon-lab/caseline/pkg/utils/logging"
)

// CaseUseCase is the case management surface used by the HTTP handlers
type CaseUseCase interface {
	CreateCase(ctx context.Context, title, description, customerName string, priority types.CasePriority) (*model.Case, error)
	GetCase(ctx context.Context, id int64) (*model.Case, error)
	ListCases(ctx context.Context, opts ...interfaces.ListCaseOption) ([]*model.Case, error)
	ChangeStatus(ctx context.Context, id int64, status types.CaseStatus) (*model.Case, error)
	GetStatusHistory(ctx context.Context, id int64) ([]model.StatusHistoryEntry, error)
	DeleteCase(ctx context.Context, id int64) error
}

// AlarmUseCase is the alarm query surface used by the HTTP handlers
type AlarmUseCase interface {
	EvaluateCase(ctx context.Context, id int64) (*usecase.CaseAlarm, error)
	ListCasesInAlarm(ctx context.Context) ([]*usecase.CaseAlarm, error)
}

type Server struct {
	router         *chi.Mux
	caseUC         CaseUseCase
	alarmUC        AlarmUseCase
	requestTimeout time.Duration
}

type Options func(*Server)

// WithRequestTimeout sets the deadline of every request context. Zero disables it.
func WithRequestTimeout(timeout time.Duration) Options {
	return func(s *Server) {
		s.requestTimeout = timeout
	}
}

func New(caseUC CaseUseCase, alarmUC AlarmUseCase, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:         r,
		caseUC:         caseUC,
		alarmUC:        alarmUC,
		requestTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.requestTimeout > 0 {
		r.Use(middleware.Timeout(s.requestTimeout))
	}

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/cases", func(r chi.Router) {
			r.Get("/", s.listCasesHandler)
			r.Post("/", s.createCaseHandler)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getCaseHandler)
				r.Delete("/", s.deleteCaseHandler)
				r.Post("/status", s.changeStatusHandler)
				r.Get("/history", s.historyHandler)
				r.Get("/alarm", s.alarmHandler)
			})
		})

		r.Get("/alarms", s.listAlarmsHandler)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
