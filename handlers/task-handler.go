package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dipxssi/synergysphere/services"
	"github.com/gorilla/mux"
)

type TaskHandler struct {
	service *services.TaskService
}

func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

func (h *TaskHandler) GetProjectTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(w, mux.Vars(r)["projectId"])
	if !ok {
		return
	}

	tasks, err := h.service.ListForProject(r.Context(), projectID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]interface{}{"tasks": tasks},
	})
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	task, err := h.service.Get(r.Context(), taskID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]interface{}{"task": task},
	})
}

func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req services.CreateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request format"})
		return
	}
	req.CreatedBy = userID

	task, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Task created successfully",
		Data:    map[string]interface{}{"task": task},
	})
}

func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var patch services.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request format"})
		return
	}

	task, err := h.service.Update(r.Context(), taskID, patch, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Task updated successfully",
		Data:    map[string]interface{}{"task": task},
	})
}

func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), taskID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Task deleted successfully",
	})
}

func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	taskID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request format"})
		return
	}

	task, err := h.service.AddComment(r.Context(), taskID, req.Message, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Comment added successfully",
		Data:    map[string]interface{}{"task": task},
	})
}
