package bot

const (
    StateIdle             = ""
    StateChoosingExecs    = "newtask_executors"
    StateTaskText         = "newtask_text"
    StateChoosingGroup    = "newtask_group"
    StateChoosingDeadline = "newtask_deadline"
    StateCustomDeadline   = "newtask_custom_deadline"
    StateManageText       = "manage_text"
    StateManageDeadline   = "manage_deadline"
    StateAddUserUsername  = "adduser_username"
    StateAddUserFullName  = "adduser_fullname"
    StateAddUserGroups    = "adduser_groups"
    StateAddAdminUsername = "addadmin_username"
)

// TaskDraft accumulates the multi-step task creation form.
type TaskDraft struct {
    Assignees []string
    TaskText  string
    GroupID   string
    Deadline  string
}

// NewUserDraft accumulates the add-user form.
type NewUserDraft struct {
    Username string
    FullName string
}
