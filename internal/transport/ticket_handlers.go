package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pulseboard/pulseboard/internal/domain/ticket"
)

func ticketInput(r *http.Request) (ticket.Input, bool) {
	if err := r.ParseForm(); err != nil {
		return ticket.Input{}, false
	}
	return ticket.Input{
		Slug:      r.PostFormValue("slug"),
		Title:     r.PostFormValue("title"),
		Summary:   r.PostFormValue("summary"),
		Status:    r.PostFormValue("status"),
		ProjectID: r.PostFormValue("projectId"),
		Assignee:  r.PostFormValue("assignee"),
	}, true
}

func (s *Server) listTickets(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := parseListQuery(query)
	opts := ticket.ListOptions{
		Cursor:         q.Cursor,
		Direction:      q.Direction,
		Limit:          q.Limit,
		Search:         q.Search,
		Sort:           ticket.SortCreatedAt,
		IncludeDeleted: q.ShowDeleted,
	}
	if q.Sort == string(ticket.SortTitle) {
		opts.Sort = ticket.SortTitle
	}
	if raw := query.Get("projectId"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeBadRequest(w, "invalid projectId filter")
			return
		}
		opts.ProjectID = &projectID
	}

	page, err := s.services.Tickets.List(r.Context(), opts)
	if err != nil {
		s.serverError(w, "listing tickets", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createTicket(w http.ResponseWriter, r *http.Request) {
	in, ok := ticketInput(r)
	if !ok {
		writeBadRequest(w, "malformed form body")
		return
	}
	result, tags := s.services.Tickets.Create(r.Context(), in)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) getTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	t, err := s.services.Tickets.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			writeNotFound(w, "ticket not found")
			return
		}
		s.serverError(w, "getting ticket", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	in, ok := ticketInput(r)
	if !ok {
		writeBadRequest(w, "malformed form body")
		return
	}
	result, tags := s.services.Tickets.Update(r.Context(), id, in)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	result, tags := s.services.Tickets.Delete(r.Context(), id)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) ticketVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	versions, err := s.services.Tickets.Versions(r.Context(), id)
	if err != nil {
		s.serverError(w, "listing ticket versions", err)
		return
	}
	count, err := s.services.Tickets.VersionCount(r.Context(), id)
	if err != nil {
		s.serverError(w, "counting ticket versions", err)
		return
	}
	writeJSON(w, http.StatusOK, versionHistory[ticket.Version]{Versions: versions, Count: count})
}

func (s *Server) ticketVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	versionNumber, ok := pathVersion(r)
	if !ok {
		writeBadRequest(w, "invalid version number")
		return
	}
	v, err := s.services.Tickets.Version(r.Context(), id, versionNumber)
	if err != nil {
		if errors.Is(err, ticket.ErrVersionNotFound) {
			writeNotFound(w, "version not found")
			return
		}
		s.serverError(w, "getting ticket version", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) compareTicketVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	from, to, ok := parseCompareQuery(r.URL.Query())
	if !ok {
		writeBadRequest(w, "from and to must be positive version numbers")
		return
	}
	diff, err := s.services.Tickets.CompareVersions(r.Context(), id, from, to)
	if err != nil {
		s.serverError(w, "comparing ticket versions", err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

func (s *Server) restoreTicketVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid ticket id")
		return
	}
	versionNumber, ok := pathVersion(r)
	if !ok {
		writeBadRequest(w, "invalid version number")
		return
	}
	result, tags := s.services.Tickets.RestoreVersion(r.Context(), id, versionNumber)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}
