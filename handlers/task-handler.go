package handlers

import (
	"net/http"
	"strconv"

	"github.com/Yash-Soni1/node-crew/apperrors"
	"github.com/Yash-Soni1/node-crew/logging"
	"github.com/Yash-Soni1/node-crew/middleware"
	"github.com/Yash-Soni1/node-crew/models"
	"github.com/Yash-Soni1/node-crew/services"
	"github.com/Yash-Soni1/node-crew/services/commands"
	"github.com/Yash-Soni1/node-crew/services/queries"
)

type TaskHandler struct {
	tasks      *services.TaskService
	commands   *commands.TaskCommandHandler
	dashboards *queries.GetDashboardHandler
	activity   *queries.GetTaskActivityHandler
}

func NewTaskHandler(tasks *services.TaskService, cmds *commands.TaskCommandHandler, dashboards *queries.GetDashboardHandler, activity *queries.GetTaskActivityHandler) *TaskHandler {
	return &TaskHandler{tasks: tasks, commands: cmds, dashboards: dashboards, activity: activity}
}

func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	list, err := h.tasks.ListTasks(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.tasks.GetTask(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) GetTaskActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			writeError(w, r, apperrors.InvalidArgument("invalid limit %q", raw))
			return
		}
	}
	entries, err := h.activity.Handle(r.Context(), queries.GetTaskActivityQuery{TaskID: id, Limit: limit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *TaskHandler) GetDashboardData(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r, queries.ScopeGlobal)
}

func (h *TaskHandler) GetUserDashboardData(w http.ResponseWriter, r *http.Request) {
	h.dashboard(w, r, queries.ScopeOwn)
}

func (h *TaskHandler) dashboard(w http.ResponseWriter, r *http.Request, scope queries.DashboardScope) {
	caller, _ := middleware.CallerFromContext(r.Context())
	dashboard, err := h.dashboards.Handle(r.Context(), queries.GetDashboardQuery{Caller: caller, Scope: scope})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	var input models.NewTask
	if err := decodeBody(r, &input); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.commands.HandleCreateTask(r.Context(), commands.CreateTaskCommand{Caller: caller, Input: input})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, taskResponse{Message: "Task created successfully", Task: task})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch models.TaskPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.commands.HandleUpdateTask(r.Context(), commands.UpdateTaskCommand{Caller: caller, TaskID: id, Patch: patch})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Message: "Task updated successfully", Task: task})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.commands.HandleDeleteTask(r.Context(), commands.DeleteTaskCommand{Caller: caller, TaskID: id}); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted successfully"})
}

func (h *TaskHandler) UpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	task, err := h.commands.HandleUpdateStatus(r.Context(), commands.UpdateStatusCommand{Caller: caller, TaskID: id, Status: body.Status})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, taskResponse{Message: "Task status updated", Task: task})
}

func (h *TaskHandler) UpdateTaskChecklist(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.CallerFromContext(r.Context())
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var body struct {
		TodoChecklist *[]models.ChecklistItem `json:"todoChecklist"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.TodoChecklist == nil {
		writeError(w, r, apperrors.InvalidArgument("todoChecklist is required"))
		return
	}
	task, err := h.commands.HandleUpdateChecklist(r.Context(), commands.UpdateChecklistCommand{Caller: caller, TaskID: id, Checklist: *body.TodoChecklist})
	if err != nil {
		writeError(w, r, err)
		return
	}
	view, err := h.tasks.View(r.Context(), task)
	if err != nil {
		logging.Logger.Warnf("Event ID: TASK_VIEW_FAILED, Description: Returning checklist update for task %s without assignee details: %v", id.Hex(), err)
		fallback := models.NewTaskView(task)
		view = &fallback
	}
	writeJSON(w, http.StatusOK, taskResponse{Message: "Task checklist updated", Task: view})
}
