package handlers

import (
	"net/http"

	"github.com/Yash-Soni1/node-crew/middleware"

	"github.com/gorilla/mux"
)

// NewRouter wires the task and user routes. Everything under /api requires
// a valid bearer token.
func NewRouter(tasks *TaskHandler, users *UserHandler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTAuthMiddleware)

	api.HandleFunc("/tasks/dashboard-data", tasks.GetDashboardData).Methods(http.MethodGet)
	api.HandleFunc("/tasks/user-dashboard-data", tasks.GetUserDashboardData).Methods(http.MethodGet)
	api.HandleFunc("/tasks", tasks.ListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", tasks.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", tasks.GetTask).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}", tasks.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", tasks.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/activity", tasks.GetTaskActivity).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id}/status", tasks.UpdateTaskStatus).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}/todo", tasks.UpdateTaskChecklist).Methods(http.MethodPut)

	api.HandleFunc("/users", users.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", users.GetUser).Methods(http.MethodGet)

	return middleware.RequestID(middleware.EnableCORS(r))
}
