package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dipxssi/synergysphere/services"
	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	service *services.ProjectService
}

func NewProjectHandler(service *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: service}
}

func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	projects, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]interface{}{"projects": projects},
	})
}

func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	project, err := h.service.Get(r.Context(), projectID, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Data:    map[string]interface{}{"project": project},
	})
}

func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}

	var req services.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request format"})
		return
	}

	project, err := h.service.Create(r.Context(), req, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "Project created successfully",
		Data:    map[string]interface{}{"project": project},
	})
}

func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var patch services.ProjectPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request format"})
		return
	}

	project, err := h.service.Update(r.Context(), projectID, patch, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Project updated successfully",
		Data:    map[string]interface{}{"project": project},
	})
}

func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), projectID, userID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Project deleted successfully",
	})
}

func (h *ProjectHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := actorID(w, r)
	if !ok {
		return
	}
	projectID, ok := pathObjectID(w, mux.Vars(r)["id"])
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Success: false, Message: "Invalid request format"})
		return
	}

	project, err := h.service.AddMember(r.Context(), projectID, req.Email, userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Member added successfully",
		Data:    map[string]interface{}{"project": project},
	})
}
