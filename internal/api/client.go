package api

import (
    "bytes"
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "taskbot/internal/models"
)

const defaultHTTPTimeout = 15 * time.Second

// Client is the HTTP client the bot uses to reach the REST backend. Every
// persistence operation of the bot goes through one of its methods.
type Client struct {
    baseURL string
    http    *http.Client
}

func NewClient(baseURL string) *Client {
    return &Client{
        baseURL: strings.TrimRight(baseURL, "/"),
        http:    &http.Client{Timeout: defaultHTTPTimeout},
    }
}

// Ping checks whether the API server is reachable.
func (c *Client) Ping(ctx context.Context) error {
    return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) AllTasks(ctx context.Context) ([]models.Task, error) {
    var resp models.TasksResponse
    if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &resp); err != nil {
        return nil, err
    }
    return resp.Tasks, nil
}

func (c *Client) CreateTaskGroup(ctx context.Context, req models.TaskRequest) (models.TaskMutationResponse, error) {
    var resp models.TaskMutationResponse
    err := c.do(ctx, http.MethodPost, "/api/tasks", req, &resp)
    return resp, err
}

func (c *Client) AddExecutors(ctx context.Context, groupTaskID int64, assignedTo []string, assignedBy string) (models.TaskMutationResponse, error) {
    var resp models.TaskMutationResponse
    req := models.TaskRequest{GroupTaskID: groupTaskID, AssignedTo: assignedTo, AssignedBy: assignedBy}
    err := c.do(ctx, http.MethodPost, "/api/tasks", req, &resp)
    return resp, err
}

func (c *Client) UpdateTaskStatus(ctx context.Context, taskID int64, status string) (models.TaskMutationResponse, error) {
    var resp models.TaskMutationResponse
    req := models.TaskUpdateRequest{Status: status}
    err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), req, &resp)
    return resp, err
}

// UpdateGroup patches the group the task belongs to; nil fields stay
// unchanged.
func (c *Client) UpdateGroup(ctx context.Context, taskID int64, upd models.GroupUpdate) (models.TaskMutationResponse, error) {
    var resp models.TaskMutationResponse
    req := models.TaskUpdateRequest{
        GroupOperation: true,
        TaskText:       upd.TaskText,
        Deadline:       upd.Deadline,
        GroupID:        upd.GroupID,
    }
    err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", taskID), req, &resp)
    return resp, err
}

func (c *Client) DeleteTask(ctx context.Context, taskID int64) (models.TaskDeleteResponse, error) {
    var resp models.TaskDeleteResponse
    err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", taskID), nil, &resp)
    return resp, err
}

func (c *Client) AllUsers(ctx context.Context) ([]models.User, error) {
    var resp models.UsersResponse
    if err := c.do(ctx, http.MethodGet, "/api/users", nil, &resp); err != nil {
        return nil, err
    }
    return resp.Users, nil
}

func (c *Client) UpsertUser(ctx context.Context, user models.User) error {
    return c.do(ctx, http.MethodPost, "/api/users", user, nil)
}

func (c *Client) DeleteUser(ctx context.Context, username string) error {
    return c.do(ctx, http.MethodDelete, "/api/users/"+username, nil, nil)
}

func (c *Client) AllGroups(ctx context.Context) ([]models.Group, error) {
    var resp models.GroupsResponse
    if err := c.do(ctx, http.MethodGet, "/api/groups", nil, &resp); err != nil {
        return nil, err
    }
    return resp.Groups, nil
}

func (c *Client) UpsertGroup(ctx context.Context, group models.Group) error {
    return c.do(ctx, http.MethodPost, "/api/groups", group, nil)
}

func (c *Client) Settings(ctx context.Context) (models.Settings, error) {
    var resp models.Settings
    err := c.do(ctx, http.MethodGet, "/api/config", nil, &resp)
    return resp, err
}

func (c *Client) SaveSettings(ctx context.Context, s models.Settings) error {
    return c.do(ctx, http.MethodPost, "/api/config", s, nil)
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
    var resp models.Stats
    err := c.do(ctx, http.MethodGet, "/api/stats", nil, &resp)
    return resp, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
    var reader *bytes.Reader
    if body != nil {
        payload, err := json.Marshal(body)
        if err != nil { return err }
        reader = bytes.NewReader(payload)
    } else {
        reader = bytes.NewReader(nil)
    }

    req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
    if err != nil { return err }
    if body != nil {
        req.Header.Set("Content-Type", "application/json")
    }

    resp, err := c.http.Do(req)
    if err != nil { return err }
    defer resp.Body.Close()

    if resp.StatusCode >= 400 {
        return decodeError(resp)
    }
    if out == nil { return nil }
    return json.NewDecoder(resp.Body).Decode(out)
}
