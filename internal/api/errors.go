package api

import (
    "encoding/json"
    "fmt"
    "net/http"
)

// APIError is a structured error returned by the HTTP API.
type APIError struct {
    Status int
    Detail string
}

func (e *APIError) Error() string {
    if e == nil {
        return ""
    }
    if e.Detail != "" {
        return e.Detail
    }
    return fmt.Sprintf("api error: %d", e.Status)
}

// IsNotFound reports whether err is an APIError with a 404 status.
func IsNotFound(err error) bool {
    apiErr, ok := err.(*APIError)
    return ok && apiErr.Status == http.StatusNotFound
}

func decodeError(resp *http.Response) error {
    var body struct {
        Detail string `json:"detail"`
    }
    _ = json.NewDecoder(resp.Body).Decode(&body)
    return &APIError{Status: resp.StatusCode, Detail: body.Detail}
}
