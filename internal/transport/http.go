// Package transport is the HTTP boundary: it parses query and form
// parameters, invokes the domain services, performs best-effort cache-tag
// invalidation with the tags mutations hand back, and renders JSON.
package transport

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pulseboard/pulseboard/internal/cache"
	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
	"github.com/pulseboard/pulseboard/internal/forms"
	"github.com/pulseboard/pulseboard/internal/pagination"
)

// Services bundles the domain services the handlers dispatch to.
type Services struct {
	Projects *project.Service
	Tickets  *ticket.Service
	Members  *member.Service
}

// Server wires HTTP handlers.
type Server struct {
	services    Services
	invalidator cache.Invalidator
	logger      *slog.Logger
}

// NewHandler builds the route table wrapped in request logging.
func NewHandler(services Services, invalidator cache.Invalidator, logger *slog.Logger) http.Handler {
	if invalidator == nil {
		invalidator = cache.Nop{}
	}
	s := &Server{services: services, invalidator: invalidator, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/projects", s.listProjects)
	mux.HandleFunc("POST /api/projects", s.createProject)
	mux.HandleFunc("GET /api/projects/options", s.projectOptions)
	mux.HandleFunc("GET /api/projects/{id}", s.getProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.updateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.deleteProject)
	mux.HandleFunc("GET /api/projects/{id}/versions", s.projectVersions)
	mux.HandleFunc("GET /api/projects/{id}/versions/compare", s.compareProjectVersions)
	mux.HandleFunc("GET /api/projects/{id}/versions/{version}", s.projectVersion)
	mux.HandleFunc("POST /api/projects/{id}/versions/{version}/restore", s.restoreProjectVersion)

	mux.HandleFunc("GET /api/tickets", s.listTickets)
	mux.HandleFunc("POST /api/tickets", s.createTicket)
	mux.HandleFunc("GET /api/tickets/{id}", s.getTicket)
	mux.HandleFunc("PUT /api/tickets/{id}", s.updateTicket)
	mux.HandleFunc("DELETE /api/tickets/{id}", s.deleteTicket)
	mux.HandleFunc("GET /api/tickets/{id}/versions", s.ticketVersions)
	mux.HandleFunc("GET /api/tickets/{id}/versions/compare", s.compareTicketVersions)
	mux.HandleFunc("GET /api/tickets/{id}/versions/{version}", s.ticketVersion)
	mux.HandleFunc("POST /api/tickets/{id}/versions/{version}/restore", s.restoreTicketVersion)

	mux.HandleFunc("GET /api/members", s.listMembers)
	mux.HandleFunc("POST /api/members", s.createMember)
	mux.HandleFunc("GET /api/members/options", s.memberOptions)
	mux.HandleFunc("GET /api/members/{id}", s.getMember)
	mux.HandleFunc("PUT /api/members/{id}", s.updateMember)
	mux.HandleFunc("DELETE /api/members/{id}", s.deleteMember)
	mux.HandleFunc("GET /api/members/{id}/versions", s.memberVersions)
	mux.HandleFunc("GET /api/members/{id}/versions/compare", s.compareMemberVersions)
	mux.HandleFunc("GET /api/members/{id}/versions/{version}", s.memberVersion)
	mux.HandleFunc("POST /api/members/{id}/versions/{version}/restore", s.restoreMemberVersion)

	mux.HandleFunc("GET /health", s.handleHealth)

	return s.requestLogger(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// requestLogger tags each request with an id and logs method, path,
// and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r)
		if s.logger != nil {
			s.logger.Debug("request",
				"id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		}
	})
}

// invalidate performs best-effort invalidation of the tags a mutation
// returned. Invalidation never blocks or fails the mutation.
func (s *Server) invalidate(tags []string) {
	for _, tag := range tags {
		s.invalidator.Invalidate(tag)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult renders the uniform mutation result: 200 on success, 422
// when the mutation reported field or form errors.
func writeResult[T any](w http.ResponseWriter, result forms.Result[T]) {
	status := http.StatusOK
	if !result.Success {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, result)
}

// versionHistory pairs a full history listing with the entity's current
// version count.
type versionHistory[T any] struct {
	Versions []T   `json:"versions"`
	Count    int64 `json:"count"`
}

func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	if s.logger != nil {
		s.logger.Error(op+" failed", "error", err)
	}
	writeJSON(w, http.StatusInternalServerError, forms.Fail[struct{}](forms.Form("internal error")))
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, forms.Fail[struct{}](forms.Form(message)))
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, forms.Fail[struct{}](forms.Form(message)))
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func pathVersion(r *http.Request) (int64, bool) {
	v, err := strconv.ParseInt(r.PathValue("version"), 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// listQuery is the common list-page query surface: cursor, direction,
// limit, search text, sort key, and the show-deleted flag.
type listQuery struct {
	Cursor      string
	Direction   pagination.Direction
	Limit       int
	Search      string
	Sort        string
	ShowDeleted bool
}

func parseListQuery(values url.Values) listQuery {
	q := listQuery{
		Cursor:    values.Get("cursor"),
		Direction: pagination.DirectionForward,
		Search:    values.Get("q"),
		Sort:      values.Get("sort"),
	}
	if values.Get("direction") == string(pagination.DirectionBackward) {
		q.Direction = pagination.DirectionBackward
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 && limit <= 100 {
		q.Limit = limit
	}
	if deleted, err := strconv.ParseBool(values.Get("deleted")); err == nil {
		q.ShowDeleted = deleted
	}
	return q
}

func parseCompareQuery(values url.Values) (from, to int64, ok bool) {
	from, errFrom := strconv.ParseInt(values.Get("from"), 10, 64)
	to, errTo := strconv.ParseInt(values.Get("to"), 10, 64)
	if errFrom != nil || errTo != nil || from < 1 || to < 1 {
		return 0, 0, false
	}
	return from, to, true
}
