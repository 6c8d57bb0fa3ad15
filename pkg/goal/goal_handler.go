package goal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type GoalDTO struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Target   string `json:"target"`
	Current  string `json:"current"`
	Deadline string `json:"deadline,omitempty"`
	Note     string `json:"note,omitempty"`
	Percent  int    `json:"percent"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	goal, err := decodeGoal(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), goal)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	goals, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]GoalDTO, 0, len(goals))
	for _, g := range goals {
		dtos = append(dtos, toDTO(g))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := pathId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	goal, err := decodeGoal(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	goal.ID = id

	updated, err := h.service.Update(r.Context(), goal)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrGoalNotFound):
		http.Error(w, "Goal not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidTarget), errors.Is(err, ErrCurrentOutOfBand):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pathId(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return int(id), err
}

func decodeGoal(r *http.Request) (Goal, error) {
	var dto GoalDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		return Goal{}, err
	}

	target, err := decimal.NewFromString(dto.Target)
	if err != nil {
		return Goal{}, err
	}
	current := decimal.Zero
	if dto.Current != "" {
		if current, err = decimal.NewFromString(dto.Current); err != nil {
			return Goal{}, err
		}
	}
	goal := Goal{ID: dto.ID, Name: dto.Name, Target: target, Current: current, Note: dto.Note}
	if dto.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, dto.Deadline)
		if err != nil {
			return Goal{}, err
		}
		goal.Deadline = &deadline
	}
	return goal, nil
}

func toDTO(g Goal) GoalDTO {
	dto := GoalDTO{
		ID:      g.ID,
		Name:    g.Name,
		Target:  g.Target.String(),
		Current: g.Current.String(),
		Note:    g.Note,
		Percent: g.ProgressPercent(),
	}
	if g.Deadline != nil {
		dto.Deadline = g.Deadline.UTC().Format(time.RFC3339)
	}
	return dto
}
