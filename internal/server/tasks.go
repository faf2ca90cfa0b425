package server

import (
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"

    "taskbot/internal/models"
)

func (s *Server) getTasks(c *gin.Context) {
    tasks, err := s.db.AllTasks(c.Request.Context())
    if err != nil {
        s.fail(c, "fetch tasks", err)
        return
    }
    if tasks == nil { tasks = []models.Task{} }
    c.JSON(http.StatusOK, models.TasksResponse{Tasks: tasks})
}

// postTasks creates a task group or appends executors to an existing one.
// A non-zero group_task_id selects the append branch.
func (s *Server) postTasks(c *gin.Context) {
    var req models.TaskRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        badRequest(c, "invalid payload: "+err.Error())
        return
    }
    if len(req.AssignedTo) == 0 {
        badRequest(c, "assigned_to must not be empty")
        return
    }

    if req.GroupTaskID > 0 {
        tasks, err := s.db.AddExecutors(c.Request.Context(), req.GroupTaskID, req.AssignedTo, req.AssignedBy)
        if err != nil {
            s.fail(c, "add executors", err)
            return
        }
        c.JSON(http.StatusOK, models.TaskMutationResponse{Success: true, GroupTaskID: req.GroupTaskID, Tasks: tasks})
        return
    }

    if req.TaskText == "" {
        badRequest(c, "task_text must not be empty")
        return
    }
    tasks, err := s.db.CreateTaskGroup(c.Request.Context(), req.TaskText, req.Deadline, req.GroupID, req.AssignedTo, req.AssignedBy)
    if err != nil {
        s.fail(c, "create task group", err)
        return
    }
    var groupTaskID int64
    if len(tasks) > 0 { groupTaskID = tasks[0].GroupTaskID }
    c.JSON(http.StatusOK, models.TaskMutationResponse{Success: true, GroupTaskID: groupTaskID, Tasks: tasks})
}

// putTask updates a task's status, or patches the task's group when
// group_operation is set.
func (s *Server) putTask(c *gin.Context) {
    id, err := pathID(c)
    if err != nil {
        badRequest(c, "invalid task id")
        return
    }
    var req models.TaskUpdateRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        badRequest(c, "invalid payload: "+err.Error())
        return
    }

    if req.GroupOperation {
        task, err := s.db.TaskByID(c.Request.Context(), id)
        if err != nil {
            s.fail(c, "fetch task for group update", err)
            return
        }
        upd := models.GroupUpdate{TaskText: req.TaskText, Deadline: req.Deadline, GroupID: req.GroupID}
        if _, err := s.db.UpdateGroup(c.Request.Context(), task.GroupTaskID, upd); err != nil {
            s.fail(c, "update group", err)
            return
        }
        c.JSON(http.StatusOK, models.TaskMutationResponse{Success: true, GroupTaskID: task.GroupTaskID})
        return
    }

    if !models.ValidStatus(req.Status) {
        badRequest(c, "status must be 'active' or 'completed'")
        return
    }
    task, err := s.db.UpdateTaskStatus(c.Request.Context(), id, req.Status)
    if err != nil {
        s.fail(c, "update task status", err)
        return
    }
    c.JSON(http.StatusOK, models.TaskMutationResponse{Success: true, Task: task})
}

func (s *Server) deleteTask(c *gin.Context) {
    id, err := pathID(c)
    if err != nil {
        badRequest(c, "invalid task id")
        return
    }
    remaining, err := s.db.DeleteTask(c.Request.Context(), id)
    if err != nil {
        s.fail(c, "delete task", err)
        return
    }
    c.JSON(http.StatusOK, models.TaskDeleteResponse{Success: true, RemainingInGroup: remaining})
}

func pathID(c *gin.Context) (int64, error) {
    return strconv.ParseInt(c.Param("id"), 10, 64)
}
