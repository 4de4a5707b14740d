package transport

import (
	"errors"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/domain/project"
)

func projectInput(r *http.Request) (project.Input, bool) {
	if err := r.ParseForm(); err != nil {
		return project.Input{}, false
	}
	return project.Input{
		Slug:        r.PostFormValue("slug"),
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
		Owner:       r.PostFormValue("owner"),
	}, true
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	q := parseListQuery(r.URL.Query())
	opts := project.ListOptions{
		Cursor:         q.Cursor,
		Direction:      q.Direction,
		Limit:          q.Limit,
		Search:         q.Search,
		Sort:           project.SortCreatedAt,
		IncludeDeleted: q.ShowDeleted,
	}
	if q.Sort == string(project.SortTitle) {
		opts.Sort = project.SortTitle
	}

	page, err := s.services.Projects.List(r.Context(), opts)
	if err != nil {
		s.serverError(w, "listing projects", err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	in, ok := projectInput(r)
	if !ok {
		writeBadRequest(w, "malformed form body")
		return
	}
	result, tags := s.services.Projects.Create(r.Context(), in)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	proj, err := s.services.Projects.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeNotFound(w, "project not found")
			return
		}
		s.serverError(w, "getting project", err)
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	in, ok := projectInput(r)
	if !ok {
		writeBadRequest(w, "malformed form body")
		return
	}
	result, tags := s.services.Projects.Update(r.Context(), id, in)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	result, tags := s.services.Projects.Delete(r.Context(), id)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}

func (s *Server) projectOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.services.Projects.Options(r.Context())
	if err != nil {
		s.serverError(w, "listing project options", err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

func (s *Server) projectVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	versions, err := s.services.Projects.Versions(r.Context(), id)
	if err != nil {
		s.serverError(w, "listing project versions", err)
		return
	}
	count, err := s.services.Projects.VersionCount(r.Context(), id)
	if err != nil {
		s.serverError(w, "counting project versions", err)
		return
	}
	writeJSON(w, http.StatusOK, versionHistory[project.Version]{Versions: versions, Count: count})
}

func (s *Server) projectVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	versionNumber, ok := pathVersion(r)
	if !ok {
		writeBadRequest(w, "invalid version number")
		return
	}
	v, err := s.services.Projects.Version(r.Context(), id, versionNumber)
	if err != nil {
		if errors.Is(err, project.ErrVersionNotFound) {
			writeNotFound(w, "version not found")
			return
		}
		s.serverError(w, "getting project version", err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) compareProjectVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	from, to, ok := parseCompareQuery(r.URL.Query())
	if !ok {
		writeBadRequest(w, "from and to must be positive version numbers")
		return
	}
	diff, err := s.services.Projects.CompareVersions(r.Context(), id, from, to)
	if err != nil {
		s.serverError(w, "comparing project versions", err)
		return
	}
	writeJSON(w, http.StatusOK, diff)
}

func (s *Server) restoreProjectVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}
	versionNumber, ok := pathVersion(r)
	if !ok {
		writeBadRequest(w, "invalid version number")
		return
	}
	result, tags := s.services.Projects.RestoreVersion(r.Context(), id, versionNumber)
	if result.Success {
		s.invalidate(tags)
	}
	writeResult(w, result)
}
