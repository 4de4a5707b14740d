package transport

import (
	"errors"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/domain/member"
)

func memberInput(r *http.Request) (member.Input, bool) {
	if err := r.ParseForm(); err != nil {
		return member.Input{}, false
	}
	return member.Input{
		Slug:   r.PostFormValue("slug"),
		Name:   r.PostFormValue("name"),
		Email:  r.PostFormValue("email"),
		Status: r.PostFormValue("status"),
		Bio:    r.PostFormValue("bio"),
		Role:   r.PostFormValue("role"),
	}, true
}

func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r.URL.Query())
	opts := member.ListOptions{
		Cursor:         q.Cursor,
		Direction:      q.Direction,
		Limit:          q.Limit,
		Search:         q.Search,
		Sort:           member.SortCreatedAt,
		IncludeDeleted: q.ShowDeleted,
	}
	if q.Sort == string(member.SortName) {
		opts.Sort = member.SortName
	}

	page, err := s.services.Members.List(r.Context(), opts)
	if err != nil {
		s.serverError(w, "listing members", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	in, ok := memberInput(r)
	if !ok {
		writeBadRequest(w, "malformed form body")
		return
	}
	result, tags := s.services.Members.Create(r.Context(), in)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) getMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	m, err := s.services.Members.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, member.ErrNotFound) {
			writeNotFound(w, "member not found")
			return
		}
		s.serverError(w, "getting member", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) updateMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	in, ok := memberInput(r)
	if !ok {
		writeBadRequest(w, "malformed form body")
		return
	}
	result, tags := s.services.Members.Update(r.Context(), id, in)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) deleteMember(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	result, tags := s.services.Members.Delete(r.Context(), id)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) memberOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.services.Members.Options(r.Context())
	if err != nil {
		s.serverError(w, "listing member options", err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (s *Server) memberVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	versions, err := s.services.Members.Versions(r.Context(), id)
	if err != nil {
		s.serverError(w, "listing member versions", err)
		return
	}
	count, err := s.services.Members.VersionCount(r.Context(), id)
	if err != nil {
		s.serverError(w, "counting member versions", err)
		return
	}
	writeJSON(w, http.StatusOK, versionHistory[member.Version]{Versions: versions, Count: count})
}

func (s *Server) memberVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	versionNumber, ok := pathVersion(r)
	if !ok {
		writeBadRequest(w, "invalid version number")
		return
	}
	v, err := s.services.Members.Version(r.Context(), id, versionNumber)
	if err != nil {
		if errors.Is(err, member.ErrVersionNotFound) {
			writeNotFound(w, "version not found")
			return
		}
		s.serverError(w, "getting member version", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) compareMemberVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	from, to, ok := parseCompareQuery(r.URL.Query())
	if !ok {
		writeBadRequest(w, "from and to must be positive version numbers")
		return
	}
	diff, err := s.services.Members.CompareVersions(r.Context(), id, from, to)
	if err != nil {
		s.serverError(w, "comparing member versions", err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

func (s *Server) restoreMemberVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid member id")
		return
	}
	versionNumber, ok := pathVersion(r)
	if !ok {
		writeBadRequest(w, "invalid version number")
		return
	}
	result, tags := s.services.Members.RestoreVersion(r.Context(), id, versionNumber)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}
