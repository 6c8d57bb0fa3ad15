package recurring

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/wallet"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type RuleDTO struct {
	ID         int        `json:"id,omitempty"`
	WalletId   int        `json:"walletId"`
	CategoryId int        `json:"categoryId"`
	Kind       string     `json:"kind"`
	Amount     string     `json:"amount"`
	Cadence    string     `json:"cadence"`
	NextRun    *time.Time `json:"nextRun,omitempty"`
	Note       string     `json:"note,omitempty"`
}

type ResultDTO struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new recurring rule")
	w.Header().Set("Content-Type", "application/json")

	var dto RuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rule, err := dtoToRule(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), rule)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(ruleToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	rules, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]RuleDTO, 0, len(rules))
	for _, rule := range rules {
		dtos = append(dtos, ruleToDTO(rule))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dto RuleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rule, err := dtoToRule(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rule.ID = int(id)

	updated, err := h.service.Update(r.Context(), rule)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(ruleToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), int(id))
	if err != nil && !errors.Is(err, ErrRuleNotFound) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Recurring rule not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Process is the external trigger of the scheduler; a timer service or cron
// is expected to call it periodically.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	result, err := h.service.ProcessDue(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(ResultDTO{Created: result.Created, Skipped: result.Skipped}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRuleNotFound),
		errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, category.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidCadence),
		errors.Is(err, transaction.ErrKindMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dtoToRule(dto RuleDTO) (Rule, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Rule{}, err
	}
	rule := Rule{
		WalletId:   dto.WalletId,
		CategoryId: dto.CategoryId,
		Kind:       category.Kind(dto.Kind),
		Amount:     amount,
		Cadence:    Cadence(dto.Cadence),
		Note:       dto.Note,
	}
	if dto.NextRun != nil {
		rule.NextRun = *dto.NextRun
	}
	return rule, nil
}

func ruleToDTO(rule Rule) RuleDTO {
	dto := RuleDTO{
		ID:         rule.ID,
		WalletId:   rule.WalletId,
		CategoryId: rule.CategoryId,
		Kind:       string(rule.Kind),
		Amount:     rule.Amount.String(),
		Cadence:    string(rule.Cadence),
		Note:       rule.Note,
	}
	if !rule.NextRun.IsZero() {
		next := rule.NextRun
		dto.NextRun = &next
	}
	return dto
}
