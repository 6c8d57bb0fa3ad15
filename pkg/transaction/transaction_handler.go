package transaction

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/kantong/kantong/internal/period"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/wallet"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransactionDTO struct {
	ID         int        `json:"id,omitempty"`
	WalletId   int        `json:"walletId"`
	CategoryId int        `json:"categoryId"`
	Kind       string     `json:"kind"`
	Amount     string     `json:"amount"`
	Date       *time.Time `json:"date,omitempty"`
	Note       string     `json:"note,omitempty"`
	TransferId string     `json:"transferId,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new transaction")
	w.Header().Set("Content-Type", "application/json")

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := dtoToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(transactionToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// List serves a month of ledger rows; month defaults to the current one.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	window := period.Current(time.Now())
	if label := r.URL.Query().Get("month"); label != "" {
		var err error
		window, err = period.Parse(label)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	transactions, err := h.service.List(r.Context(), window.Start, window.End)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]TransactionDTO, 0, len(transactions))
	for _, t := range transactions {
		dtos = append(dtos, transactionToDTO(t))
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

	var dto TransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t, err := dtoToTransaction(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	t.ID = id

	updated, err := h.service.Update(r.Context(), t)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := json.NewEncoder(w).Encode(transactionToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ok, err := h.service.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		http.Error(w, "Transaction not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTransactionNotFound),
		errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, category.ErrCategoryNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrKindMismatch):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pathId(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return int(id), err
}

func dtoToTransaction(dto TransactionDTO) (Transaction, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Transaction{}, err
	}
	t := Transaction{
		WalletId:   dto.WalletId,
		CategoryId: dto.CategoryId,
		Kind:       category.Kind(dto.Kind),
		Amount:     amount,
		Note:       dto.Note,
	}
	if dto.Date != nil {
		t.Date = *dto.Date
	}
	return t, nil
}

func transactionToDTO(t Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:         t.ID,
		WalletId:   t.WalletId,
		CategoryId: t.CategoryId,
		Kind:       string(t.Kind),
		Amount:     t.Amount.String(),
		Note:       t.Note,
		TransferId: t.TransferUid,
	}
	if !t.Date.IsZero() {
		date := t.Date
		dto.Date = &date
	}
	return dto
}
