package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/colinswan/sentinel/internal/db"
)

type createProjectRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// CreateProjectHandler creates a project with the default columns.
func (s *Server) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.AccountID == "" || req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "account_id and name are required"})
		return
	}

	project, err := db.CreateProject(req.AccountID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

// GetProjectHandler returns a project with its board.
func (s *Server) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	project, err := db.GetProject(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ListProjectsHandler returns every project on the account.
func (s *Server) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	projects, err := db.ListProjects(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// ActiveProjectHandler returns the account's single active project.
func (s *Server) ActiveProjectHandler(w http.ResponseWriter, r *http.Request) {
	project, err := db.GetActiveProject(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// ActivateProjectHandler makes this the active project.
func (s *Server) ActivateProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	project, err := db.SetActiveProject(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteProjectHandler removes a project and everything under it.
func (s *Server) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	if err := db.DeleteProject(projectID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addColumnRequest struct {
	Name             string `json:"name"`
	IsCompleteColumn bool   `json:"is_complete_column"`
}

// AddColumnHandler appends a column to the board.
func (s *Server) AddColumnHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req addColumnRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
		return
	}

	col, err := db.AddColumn(projectID, req.Name, req.IsCompleteColumn)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, col)
}

type reorderColumnsRequest struct {
	ColumnIDs []uint `json:"column_ids"`
}

// ReorderColumnsHandler rewrites column order to match the id sequence.
func (s *Server) ReorderColumnsHandler(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req reorderColumnsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := db.ReorderColumns(projectID, req.ColumnIDs); err != nil {
		writeError(w, err)
		return
	}

	project, err := db.GetProject(projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// DeleteColumnHandler removes a non-default column, optionally moving its
// tasks first via ?move_tasks_to=<column-id>.
func (s *Server) DeleteColumnHandler(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}

	var moveTo *uint
	if raw := r.URL.Query().Get("move_tasks_to"); raw != "" {
		id, err := parseUint(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid move_tasks_to"})
			return
		}
		moveTo = &id
	}

	if err := db.DeleteColumn(columnID, moveTo); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CreateTaskHandler appends a task to a column.
func (s *Server) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	columnID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "title is required"})
		return
	}

	task, err := db.CreateTask(columnID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateTaskHandler patches task fields.
func (s *Server) UpdateTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req updateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := db.UpdateTask(taskID, req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

type moveTaskRequest struct {
	ColumnID uint `json:"column_id"`
	Position int  `json:"position"`
}

// MoveTaskHandler repositions a task, handling complete-column crossings.
func (s *Server) MoveTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	var req moveTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := db.MoveTask(taskID, req.ColumnID, req.Position)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTaskHandler removes a task.
func (s *Server) DeleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	taskID, ok := pathUint(w, r, "id")
	if !ok {
		return
	}
	if err := db.DeleteTask(taskID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
