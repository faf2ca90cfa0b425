package models

// TaskRequest is the POST /api/tasks payload. A non-zero GroupTaskID means
// "add executors to an existing group", otherwise a new group is created.
type TaskRequest struct {
	GroupTaskID int64    `json:"group_task_id,omitempty"`
	TaskText    string   `json:"task_text,omitempty"`
	Deadline    string   `json:"deadline,omitempty"`
	GroupID     string   `json:"group_id,omitempty"`
	AssignedTo  []string `json:"assigned_to"`
	AssignedBy  string   `json:"assigned_by"`
}

// TaskUpdateRequest is the PUT /api/tasks/{id} payload. GroupOperation
// selects between a group patch and a status change.
type TaskUpdateRequest struct {
	GroupOperation bool    `json:"group_operation,omitempty"`
	Status         string  `json:"status,omitempty"`
	TaskText       *string `json:"task_text,omitempty"`
	Deadline       *string `json:"deadline,omitempty"`
	GroupID        *string `json:"group_id,omitempty"`
}

// GroupUpdate carries the optional fields of a group patch; nil means
// "leave unchanged".
type GroupUpdate struct {
	TaskText *string `json:"task_text,omitempty"`
	Deadline *string `json:"deadline,omitempty"`
	GroupID  *string `json:"group_id,omitempty"`
}

type TasksResponse struct {
	Tasks []Task `json:"tasks"`
}

type TaskMutationResponse struct {
	Success     bool   `json:"success"`
	GroupTaskID int64  `json:"group_task_id,omitempty"`
	Tasks       []Task `json:"tasks,omitempty"`
	Task        *Task  `json:"task,omitempty"`
}

type TaskDeleteResponse struct {
	Success          bool `json:"success"`
	RemainingInGroup int  `json:"remaining_in_group"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type GroupsResponse struct {
	Groups []Group `json:"groups"`
}
