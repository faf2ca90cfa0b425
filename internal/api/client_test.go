package api

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "taskbot/internal/models"
)

func TestClientDecodesTasks(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/api/tasks", r.URL.Path)
        json.NewEncoder(w).Encode(models.TasksResponse{Tasks: []models.Task{
            {ID: 1, GroupTaskID: 1, AssignedTo: "@ivan", Status: models.StatusActive, TaskText: "текст", Deadline: "01.01.2027"},
        }})
    }))
    defer ts.Close()

    tasks, err := NewClient(ts.URL).AllTasks(context.Background())
    require.NoError(t, err)
    require.Len(t, tasks, 1)
    assert.Equal(t, "текст", tasks[0].TaskText)
}

func TestClientSendsJSONBody(t *testing.T) {
    var got models.TaskRequest
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, http.MethodPost, r.Method)
        assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
        require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
        json.NewEncoder(w).Encode(models.TaskMutationResponse{Success: true, GroupTaskID: 5})
    }))
    defer ts.Close()

    resp, err := NewClient(ts.URL).AddExecutors(context.Background(), 5, []string{"@olga"}, "@boss")
    require.NoError(t, err)
    assert.True(t, resp.Success)
    assert.Equal(t, int64(5), got.GroupTaskID)
    assert.Equal(t, []string{"@olga"}, got.AssignedTo)
}

func TestClientNotFound(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusNotFound)
        json.NewEncoder(w).Encode(map[string]string{"detail": "task 42: not found"})
    }))
    defer ts.Close()

    _, err := NewClient(ts.URL).UpdateTaskStatus(context.Background(), 42, models.StatusCompleted)
    require.Error(t, err)
    assert.True(t, IsNotFound(err))
    assert.Equal(t, "task 42: not found", err.Error())
}

func TestClientOpaqueServerError(t *testing.T) {
    ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusInternalServerError)
        json.NewEncoder(w).Encode(map[string]string{"detail": "internal error"})
    }))
    defer ts.Close()

    _, err := NewClient(ts.URL).AllTasks(context.Background())
    require.Error(t, err)
    assert.False(t, IsNotFound(err))
}
