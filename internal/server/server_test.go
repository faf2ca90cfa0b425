package server

import (
    "bytes"
    "encoding/json"
    "log/slog"
    "net/http"
    "net/http/httptest"
    "path/filepath"
    "strconv"
    "testing"

    "github.com/gin-gonic/gin"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "taskbot/internal/models"
    "taskbot/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
    t.Helper()
    gin.SetMode(gin.TestMode)
    db, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
    require.NoError(t, err)
    t.Cleanup(func() { db.Close() })

    srv := New(db, slog.New(slog.NewTextHandler(testWriter{t}, nil)))
    ts := httptest.NewServer(srv.Engine())
    t.Cleanup(ts.Close)
    return ts
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
    w.t.Log(string(p))
    return len(p), nil
}

func doJSON(t *testing.T, method, url string, body, out any) *http.Response {
    t.Helper()
    var reader *bytes.Reader
    if body != nil {
        payload, err := json.Marshal(body)
        require.NoError(t, err)
        reader = bytes.NewReader(payload)
    } else {
        reader = bytes.NewReader(nil)
    }
    req, err := http.NewRequest(method, url, reader)
    require.NoError(t, err)
    req.Header.Set("Content-Type", "application/json")
    resp, err := http.DefaultClient.Do(req)
    require.NoError(t, err)
    t.Cleanup(func() { resp.Body.Close() })
    if out != nil {
        require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
    }
    return resp
}

func TestHealth(t *testing.T) {
    ts := newTestServer(t)
    resp, err := http.Get(ts.URL + "/health")
    require.NoError(t, err)
    resp.Body.Close()
    assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTaskLifecycle(t *testing.T) {
    ts := newTestServer(t)

    var created models.TaskMutationResponse
    resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks", models.TaskRequest{
        TaskText:   "подготовить отчет",
        Deadline:   "01.12.2026",
        GroupID:    "-100123",
        AssignedTo: []string{"@ivan", "@olga"},
        AssignedBy: "@boss",
    }, &created)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    assert.True(t, created.Success)
    assert.Equal(t, int64(1), created.GroupTaskID)
    require.Len(t, created.Tasks, 2)

    // a non-zero group_task_id appends executors instead of creating
    var appended models.TaskMutationResponse
    resp = doJSON(t, http.MethodPost, ts.URL+"/api/tasks", models.TaskRequest{
        GroupTaskID: created.GroupTaskID,
        AssignedTo:  []string{"@petr"},
        AssignedBy:  "@boss",
    }, &appended)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    require.Len(t, appended.Tasks, 1)
    assert.Equal(t, "подготовить отчет", appended.Tasks[0].TaskText)

    var listed models.TasksResponse
    resp = doJSON(t, http.MethodGet, ts.URL+"/api/tasks", nil, &listed)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    assert.Len(t, listed.Tasks, 3)

    // status change
    taskID := created.Tasks[0].ID
    var updated models.TaskMutationResponse
    resp = doJSON(t, http.MethodPut, ts.URL+"/api/tasks/"+itoa(taskID),
        models.TaskUpdateRequest{Status: models.StatusCompleted}, &updated)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    require.NotNil(t, updated.Task)
    assert.Equal(t, models.StatusCompleted, updated.Task.Status)
    assert.NotEmpty(t, updated.Task.CompletedAt)

    // group patch via any member task id
    deadline := "15.12.2026"
    resp = doJSON(t, http.MethodPut, ts.URL+"/api/tasks/"+itoa(taskID),
        models.TaskUpdateRequest{GroupOperation: true, Deadline: &deadline}, nil)
    require.Equal(t, http.StatusOK, resp.StatusCode)

    resp = doJSON(t, http.MethodGet, ts.URL+"/api/tasks", nil, &listed)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    for _, task := range listed.Tasks {
        assert.Equal(t, "15.12.2026", task.Deadline)
    }

    // delete reports the remaining siblings
    var deleted models.TaskDeleteResponse
    resp = doJSON(t, http.MethodDelete, ts.URL+"/api/tasks/"+itoa(taskID), nil, &deleted)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    assert.True(t, deleted.Success)
    assert.Equal(t, 2, deleted.RemainingInGroup)
}

func TestTaskValidation(t *testing.T) {
    ts := newTestServer(t)

    resp := doJSON(t, http.MethodPost, ts.URL+"/api/tasks",
        models.TaskRequest{TaskText: "текст", AssignedTo: nil}, nil)
    assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

    resp = doJSON(t, http.MethodPost, ts.URL+"/api/tasks",
        models.TaskRequest{AssignedTo: []string{"@ivan"}}, nil)
    assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

    resp = doJSON(t, http.MethodPut, ts.URL+"/api/tasks/abc",
        models.TaskUpdateRequest{Status: models.StatusActive}, nil)
    assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

    resp = doJSON(t, http.MethodPut, ts.URL+"/api/tasks/1",
        models.TaskUpdateRequest{Status: "paused"}, nil)
    assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNotFoundDetail(t *testing.T) {
    ts := newTestServer(t)

    var errBody struct {
        Detail string `json:"detail"`
    }
    resp := doJSON(t, http.MethodPut, ts.URL+"/api/tasks/42",
        models.TaskUpdateRequest{Status: models.StatusCompleted}, &errBody)
    assert.Equal(t, http.StatusNotFound, resp.StatusCode)
    assert.Contains(t, errBody.Detail, "not found")

    resp = doJSON(t, http.MethodDelete, ts.URL+"/api/tasks/42", nil, nil)
    assert.Equal(t, http.StatusNotFound, resp.StatusCode)

    resp = doJSON(t, http.MethodPost, ts.URL+"/api/tasks",
        models.TaskRequest{GroupTaskID: 42, AssignedTo: []string{"@ivan"}}, nil)
    assert.Equal(t, http.StatusNotFound, resp.StatusCode)

    resp = doJSON(t, http.MethodDelete, ts.URL+"/api/users/@ghost", nil, nil)
    assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUsersEndpoint(t *testing.T) {
    ts := newTestServer(t)

    resp := doJSON(t, http.MethodPost, ts.URL+"/api/users",
        models.User{Username: "@ivan", FullName: "Иван", Groups: []string{"dev"}}, nil)
    require.Equal(t, http.StatusOK, resp.StatusCode)

    var listed models.UsersResponse
    resp = doJSON(t, http.MethodGet, ts.URL+"/api/users", nil, &listed)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    require.Len(t, listed.Users, 1)
    assert.Equal(t, []string{"dev"}, listed.Users[0].Groups)

    resp = doJSON(t, http.MethodPost, ts.URL+"/api/users", models.User{}, nil)
    assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestConfigEndpoint(t *testing.T) {
    ts := newTestServer(t)

    var settings models.Settings
    resp := doJSON(t, http.MethodGet, ts.URL+"/api/config", nil, &settings)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    assert.Equal(t, models.DefaultSettings(), settings)

    settings.TaskCreated = false
    settings.Admins = []string{"@boss"}
    resp = doJSON(t, http.MethodPost, ts.URL+"/api/config", settings, nil)
    require.Equal(t, http.StatusOK, resp.StatusCode)

    var saved models.Settings
    resp = doJSON(t, http.MethodGet, ts.URL+"/api/config", nil, &saved)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    assert.Equal(t, settings, saved)
}

func TestStatsEndpoint(t *testing.T) {
    ts := newTestServer(t)

    doJSON(t, http.MethodPost, ts.URL+"/api/tasks", models.TaskRequest{
        TaskText:   "текст",
        Deadline:   "01.01.2020",
        AssignedTo: []string{"@ivan"},
        AssignedBy: "@boss",
    }, nil)

    var stats models.Stats
    resp := doJSON(t, http.MethodGet, ts.URL+"/api/stats", nil, &stats)
    require.Equal(t, http.StatusOK, resp.StatusCode)
    assert.Equal(t, 1, stats.TotalTasks)
    assert.Equal(t, 1, stats.ActiveTasks)
    assert.Equal(t, 1, stats.OverdueTasks)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
