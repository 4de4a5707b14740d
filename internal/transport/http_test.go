package transport_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pulseboard/pulseboard/internal/cache"
	"github.com/pulseboard/pulseboard/internal/domain/member"
	"github.com/pulseboard/pulseboard/internal/domain/project"
	"github.com/pulseboard/pulseboard/internal/domain/ticket"
	"github.com/pulseboard/pulseboard/internal/sqlite"
	"github.com/pulseboard/pulseboard/internal/transport"
)

type testEnv struct {
	handler  http.Handler
	projects *sqlite.ProjectRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	projectRepo := sqlite.NewProjectRepository(db)
	services := transport.Services{
		Projects: project.NewService(projectRepo, nil),
		Tickets:  ticket.NewService(sqlite.NewTicketRepository(db), nil),
		Members:  member.NewService(sqlite.NewMemberRepository(db), nil),
	}
	return &testEnv{
		handler:  transport.NewHandler(services, cache.NewMemory(), nil),
		projects: projectRepo,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type mutationResponse struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type projectJSON struct {
	ID        int64   `json:"id"`
	Slug      string  `json:"slug"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	DeletedAt *string `json:"deletedAt"`
}

type pageJSON struct {
	Items    []projectJSON `json:"items"`
	PageInfo struct {
		HasNext     bool   `json:"hasNext"`
		HasPrevious bool   `json:"hasPrevious"`
		NextCursor  string `json:"nextCursor"`
		PrevCursor  string `json:"prevCursor"`
	} `json:"pageInfo"`
}

func projectForm(slug, title string) url.Values {
	return url.Values{
		"slug":   {slug},
		"title":  {title},
		"status": {"active"},
		"owner":  {"Ada Adler"},
	}
}

func TestCreateAndGetProject(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/projects", projectForm("atlas", "Atlas Redesign"))
	require.Equal(t, http.StatusOK, rec.Code)

	result := decode[mutationResponse](t, rec)
	require.True(t, result.Success)

	var created projectJSON
	require.NoError(t, json.Unmarshal(result.Data, &created))
	require.Positive(t, created.ID)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decode[projectJSON](t, rec)
	require.Equal(t, "atlas", fetched.Slug)
}

func TestCreateProjectValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/projects", url.Values{"slug": {"!"}})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	result := decode[mutationResponse](t, rec)
	require.False(t, result.Success)
	require.Contains(t, result.Errors, "slug")
	require.Contains(t, result.Errors, "title")
}

func TestGetProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/projects/999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects/banana", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// seedProjects creates n projects with distinct creation times directly
// through the repository.
func seedProjects(t *testing.T, env *testEnv, n int) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Duration(n) * time.Second)
	for i := 0; i < n; i++ {
		at := base.Add(time.Duration(i) * time.Second)
		owner := "Owner"
		proj := &project.Project{
			Fields: project.Fields{
				Slug:   fmt.Sprintf("proj-%03d", i),
				Title:  fmt.Sprintf("Project %03d", i),
				Status: project.StatusActive,
				Owner:  &owner,
			},
			CreatedAt: at,
			UpdatedAt: at,
		}
		require.NoError(t, env.projects.Create(context.Background(), proj))
	}
}

func TestListPaginationWalk(t *testing.T) {
	env := newTestEnv(t)
	seedProjects(t, env, 50)

	seen := make(map[int64]bool)
	cursor := ""
	var deletedID int64
	for page := 0; ; page++ {
		path := "/api/projects?limit=5"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}
		rec := env.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		result := decode[pageJSON](t, rec)

		for _, item := range result.Items {
			require.False(t, seen[item.ID], "row %d returned twice", item.ID)
			require.NotEqual(t, deletedID, item.ID, "deleted row reappeared")
			seen[item.ID] = true
		}

		// Delete a row from a future page after the first page. The walk
		// must stay stable: no repeats, no skips besides the deleted row.
		if page == 0 {
			rec := env.do(t, http.MethodGet, "/api/projects?limit=50", nil)
			all := decode[pageJSON](t, rec)
			deletedID = all.Items[20].ID
			del := env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", deletedID), nil)
			require.Equal(t, http.StatusOK, del.Code)
		}

		if !result.PageInfo.HasNext {
			break
		}
		cursor = result.PageInfo.NextCursor
	}

	require.Len(t, seen, 49)
	require.False(t, seen[deletedID])
}

func TestListShowDeleted(t *testing.T) {
	env := newTestEnv(t)
	seedProjects(t, env, 2)

	rec := env.do(t, http.MethodGet, "/api/projects?limit=10", nil)
	all := decode[pageJSON](t, rec)
	require.Len(t, all.Items, 2)

	del := env.do(t, http.MethodDelete, fmt.Sprintf("/api/projects/%d", all.Items[0].ID), nil)
	require.Equal(t, http.StatusOK, del.Code)

	rec = env.do(t, http.MethodGet, "/api/projects?limit=10", nil)
	require.Len(t, decode[pageJSON](t, rec).Items, 1)

	rec = env.do(t, http.MethodGet, "/api/projects?limit=10&deleted=true", nil)
	require.Len(t, decode[pageJSON](t, rec).Items, 2)

	// Detail reads still resolve soft-deleted rows.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", all.Items[0].ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, decode[projectJSON](t, rec).DeletedAt)
}

func TestVersionHistoryAndRestore(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/projects", projectForm("atlas", "Original Title"))
	result := decode[mutationResponse](t, rec)
	require.True(t, result.Success)
	var created projectJSON
	require.NoError(t, json.Unmarshal(result.Data, &created))

	for _, title := range []string{"Second Title", "Third Title"} {
		rec = env.do(t, http.MethodPut, fmt.Sprintf("/api/projects/%d", created.ID), projectForm("atlas", title))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/versions", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode[struct {
		Versions []struct {
			VersionNumber int64  `json:"versionNumber"`
			Title         string `json:"title"`
		} `json:"versions"`
		Count int64 `json:"count"`
	}](t, rec)
	require.Equal(t, int64(2), history.Count)
	require.Equal(t, int64(2), history.Versions[0].VersionNumber)
	require.Equal(t, "Second Title", history.Versions[0].Title)
	require.Equal(t, "Original Title", history.Versions[1].Title)

	// Only the second update's change shows between versions 1 and 2.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/versions/compare?from=1&to=2", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	diff := decode[struct {
		Changes []struct {
			Field    string          `json:"field"`
			OldValue json.RawMessage `json:"oldValue"`
			NewValue json.RawMessage `json:"newValue"`
		} `json:"changes"`
	}](t, rec)
	require.Len(t, diff.Changes, 1)
	require.Equal(t, "title", diff.Changes[0].Field)

	rec = env.do(t, http.MethodPost, fmt.Sprintf("/api/projects/%d/versions/1/restore", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restored := decode[mutationResponse](t, rec)
	require.True(t, restored.Success)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d", created.ID), nil)
	require.Equal(t, "Original Title", decode[projectJSON](t, rec).Title)

	// The pre-restore state got snapshotted as version 3.
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/projects/%d/versions/3", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCompareBadParams(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/projects/1/versions/compare?from=0&to=2", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/projects/1/versions/compare", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTicketCrossEntityFlow(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/projects", projectForm("atlas", "Atlas"))
	result := decode[mutationResponse](t, rec)
	require.True(t, result.Success)
	var proj projectJSON
	require.NoError(t, json.Unmarshal(result.Data, &proj))

	form := url.Values{
		"slug":      {"fix-login"},
		"title":     {"Fix login"},
		"summary":   {"Login breaks on submit"},
		"status":    {"todo"},
		"projectId": {fmt.Sprintf("%d", proj.ID)},
	}
	rec = env.do(t, http.MethodPost, "/api/tickets", form)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, decode[mutationResponse](t, rec).Success)

	// A dangling project id maps to a field error, not a 500.
	form.Set("slug", "fix-logout")
	form.Set("projectId", "424242")
	rec = env.do(t, http.MethodPost, "/api/tickets", form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decode[mutationResponse](t, rec)
	require.Equal(t, "project does not exist", errs.Errors["projectId"])

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/api/tickets?projectId=%d", proj.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Items []struct {
			Slug string `json:"slug"`
		} `json:"items"`
	}](t, rec)
	require.Len(t, page.Items, 1)
	require.Equal(t, "fix-login", page.Items[0].Slug)
}

func TestMemberOptions(t *testing.T) {
	env := newTestEnv(t)

	for _, name := range []string{"Zoe Quint", "Abe Berg"} {
		form := url.Values{
			"slug":   {strings.ToLower(strings.ReplaceAll(name, " ", "-"))},
			"name":   {name},
			"email":  {strings.ToLower(strings.Fields(name)[0]) + "@example.com"},
			"status": {"active"},
			"role":   {"Engineer"},
		}
		rec := env.do(t, http.MethodPost, "/api/members", form)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := env.do(t, http.MethodGet, "/api/members/options", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	options := decode[[]struct {
		Name string `json:"name"`
	}](t, rec)
	require.Len(t, options, 2)
	require.Equal(t, "Abe Berg", options[0].Name)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
