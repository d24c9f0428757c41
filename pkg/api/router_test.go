package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LambdaTest/jira-reporter/config"
	"github.com/LambdaTest/jira-reporter/pkg/core"
	"github.com/LambdaTest/jira-reporter/pkg/issuebuilder"
	"github.com/LambdaTest/jira-reporter/pkg/lifecycle"
	"github.com/LambdaTest/jira-reporter/pkg/lockmap"
	"github.com/LambdaTest/jira-reporter/pkg/lumber"
	"github.com/LambdaTest/jira-reporter/pkg/metadatacache"
	jobconfigservice "github.com/LambdaTest/jira-reporter/pkg/service/jobconfig"
	"github.com/LambdaTest/jira-reporter/pkg/service/trackervalidation"
	"github.com/LambdaTest/jira-reporter/pkg/store/jobconfig"
	"github.com/LambdaTest/jira-reporter/pkg/store/testissue"
	"github.com/LambdaTest/jira-reporter/pkg/tracker/trackertest"
	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newTestRouter(t *testing.T) (*gin.Engine, *trackertest.Fake, context.CancelFunc) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := lumber.NewNopLogger()
	fake := trackertest.New()
	configs := jobconfig.NewMemory(logger)
	issues := testissue.NewMemory()
	cache, err := metadatacache.NewLRU(8, logger)
	require.NoError(t, err)
	builder := issuebuilder.New(logger)
	controller := lifecycle.New(configs, issues, metadatacache.NewLoader(cache, fake, logger), fake,
		lockmap.New(logger), builder, logger)

	signalCtx, cancel := context.WithCancel(context.Background())
	r := New(signalCtx, &config.Config{Env: "dev"},
		&core.DBStores{JobConfigStore: configs, TestIssueStore: issues},
		&core.Services{
			JobConfigService:         jobconfigservice.New(configs, issues, cache, logger),
			TrackerValidationService: trackervalidation.New(fake, builder, logger),
		},
		fake, controller, logger)
	return r.Handler(), fake, cancel
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router, _, cancel := newTestRouter(t)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health", "").Code)
	cancel()
	assert.Equal(t, http.StatusServiceUnavailable, do(router, http.MethodGet, "/health", "").Code)
}

func TestJobConfigRoutes(t *testing.T) {
	router, _, cancel := newTestRouter(t)
	defer cancel()

	w := do(router, http.MethodGet, "/jobs/acme/config", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPut, "/jobs/acme/config",
		`{"project_key":"PRJ","issue_type":"ten","max_bugs_per_day":"5","auto_raise_issue":true,
		  "field_templates":[{"field":"labels","kind":"labels","value":"ci"}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(router, http.MethodGet, "/jobs/acme/config", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cfg core.JobConfig
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cfg))
	assert.Equal(t, "PRJ", cfg.ProjectKey)
	assert.Equal(t, int64(1), cfg.IssueType)
	assert.Equal(t, int64(5), cfg.MaxBugsPerDay.Int64)
	assert.True(t, cfg.AutoRaiseIssue)
	assert.Equal(t, []core.FieldTemplate{{Field: "labels", Kind: core.FieldKindLabels, Value: "ci"}}, cfg.FieldTemplates)
}

func TestJobConfigRejectsBlankProjectKey(t *testing.T) {
	router, _, cancel := newTestRouter(t)
	defer cancel()

	w := do(router, http.MethodPut, "/jobs/acme/config", `{"project_key":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "project_key")
}

func TestBuildSubmissionAndMapping(t *testing.T) {
	router, fake, cancel := newTestRouter(t)
	defer cancel()
	require.Equal(t, http.StatusOK, do(router, http.MethodPut, "/jobs/acme/config",
		`{"project_key":"PRJ","auto_raise_issue":true}`).Code)

	w := do(router, http.MethodPost, "/jobs/acme/builds",
		`{"build_number":12,"build_url":"http://ci/12/","packages":[{"name":"com.acme","classes":[{"name":"LoginTest",
		  "cases":[{"name":"testLogin","status":"failed","error_details":"boom"},{"name":"testLogout","status":"passed"}]}]}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var report core.Report
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, "acme", report.Job)
	require.Len(t, report.Outcomes, 1)
	assert.Equal(t, core.OutcomeCreated, report.Outcomes[0].Status)
	assert.Equal(t, 1, fake.CreateCount())

	w = do(router, http.MethodGet, "/jobs/acme/mappings/com.acme/LoginTest/testLogin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"issue_key":"PRJ-1"`)

	w = do(router, http.MethodGet, "/jobs/acme/mappings/com.acme/LoginTest/testLogout", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPost, "/jobs/acme/builds?format=text",
		`{"build_number":13,"results":[{"package_name":"com.acme","class_name":"LoginTest","name":"testLogin","status":"failed"}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate of PRJ-1")
}

func TestBuildSubmissionRejectsBadStatus(t *testing.T) {
	router, _, cancel := newTestRouter(t)
	defer cancel()

	w := do(router, http.MethodPost, "/jobs/acme/builds", `{"results":[{"name":"t","status":"exploded"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrackerRoutes(t *testing.T) {
	router, fake, cancel := newTestRouter(t)
	defer cancel()
	fake.Project = &core.ProjectMetadata{Key: "PRJ", IssueTypes: []core.IssueType{{ID: "3", Name: "Task"}, {ID: "1", Name: "Bug"}}}
	fake.Statuses = []*core.Status{{ID: "6", Name: "Closed", CategoryKey: "done"}}

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/tracker/validate", "").Code)
	fake.Info = &core.ServerInfo{Version: "8.20.1"}
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/tracker/validate", "").Code)

	assert.Equal(t, http.StatusNotFound, do(router, http.MethodGet, "/tracker/projects/NOPE", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/tracker/projects/PRJ", "").Code)

	w := do(router, http.MethodGet, "/tracker/projects/PRJ/issuetypes", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default":"1"`)

	w = do(router, http.MethodGet, "/tracker/statuses", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"category_key":"done"`)

	w = do(router, http.MethodPost, "/tracker/validate-fields", `{"job":"acme","config":{"project_key":"PRJ"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"valid":true`)
	assert.Equal(t, []string{"PRJ-1"}, fake.Deleted)

	assert.Equal(t, http.StatusBadRequest, do(router, http.MethodPost, "/tracker/validate-fields", `{"job":"acme"}`).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router, _, cancel := newTestRouter(t)
	defer cancel()

	w := do(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
