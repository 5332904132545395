package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"quizzone/internal/model"
	"quizzone/internal/repository"
)

// QuestionSetHandler handles question set endpoints.
type QuestionSetHandler struct {
	repo repository.QuestionSetRepo
}

// NewQuestionSetHandler creates a new question set handler.
func NewQuestionSetHandler(repo repository.QuestionSetRepo) *QuestionSetHandler {
	return &QuestionSetHandler{repo: repo}
}

// Create handles POST /v1/question-sets.
func (h *QuestionSetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var qs model.QuestionSet
	if err := json.NewDecoder(r.Body).Decode(&qs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateQuestionSet(&qs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.repo.Create(r.Context(), &qs)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// List handles GET /v1/question-sets.
func (h *QuestionSetHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"questionSets": sets})
}

// Get handles GET /v1/question-sets/{id}.
func (h *QuestionSetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	qs, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if qs == nil {
		writeError(w, http.StatusNotFound, "question set not found")
		return
	}

	writeJSON(w, http.StatusOK, qs)
}

// Delete handles DELETE /v1/question-sets/{id}.
func (h *QuestionSetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateQuestionSet(qs *model.QuestionSet) error {
	if qs.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(qs.Questions) == 0 {
		return fmt.Errorf("at least one question is required")
	}
	for i, q := range qs.Questions {
		if q.Text == "" {
			return fmt.Errorf("question %d: text is required", i)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d: at least two options are required", i)
		}
		if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
			return fmt.Errorf("question %d: correctOption out of range", i)
		}
	}
	return nil
}
