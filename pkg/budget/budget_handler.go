package budget

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type BudgetDTO struct {
	ID         int    `json:"id,omitempty"`
	CategoryId int    `json:"categoryId"`
	Month      string `json:"month"`
	Cap        string `json:"cap"`
}

type ProgressDTO struct {
	BudgetDTO
	Spent     string `json:"spent"`
	Remaining string `json:"remaining"`
	Percent   int    `json:"percent"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), budget)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateBudget):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, ErrInvalidCap), errors.Is(err, ErrNotExpense):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetProgress lists the month's budgets with spend derived from the ledger.
// The month comes from the required ?month=YYYY-MM query parameter.
func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	month := r.URL.Query().Get("month")
	if month == "" {
		http.Error(w, "month query parameter is required", http.StatusBadRequest)
		return
	}

	progress, err := h.service.WithProgress(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dtos := make([]ProgressDTO, 0, len(progress))
	for _, p := range progress {
		dtos = append(dtos, toProgressDTO(p))
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

	var dto BudgetDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	budget.ID = id

	updated, err := h.service.Update(r.Context(), budget)
	if err != nil {
		switch {
		case errors.Is(err, ErrBudgetNotFound):
			http.Error(w, "Budget not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidCap):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
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
		if errors.Is(err, ErrBudgetNotFound) {
			http.Error(w, "Budget not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathId(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return int(id), err
}

func fromDTO(dto BudgetDTO) (Budget, error) {
	capAmount, err := decimal.NewFromString(dto.Cap)
	if err != nil {
		return Budget{}, err
	}
	return Budget{ID: dto.ID, CategoryId: dto.CategoryId, Month: dto.Month, Cap: capAmount}, nil
}

func toDTO(b Budget) BudgetDTO {
	return BudgetDTO{ID: b.ID, CategoryId: b.CategoryId, Month: b.Month, Cap: b.Cap.String()}
}

func toProgressDTO(p Progress) ProgressDTO {
	return ProgressDTO{
		BudgetDTO: toDTO(p.Budget),
		Spent:     p.Spent.String(),
		Remaining: p.Remaining.String(),
		Percent:   p.Percent,
	}
}
