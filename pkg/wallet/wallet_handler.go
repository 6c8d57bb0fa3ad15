package wallet

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type WalletDTO struct {
	ID             int    `json:"id,omitempty"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Currency       string `json:"currency,omitempty"`
	InitialBalance string `json:"initialBalance"`
	CurrentBalance string `json:"currentBalance,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log.Debug("Registering new wallet")
	w.Header().Set("Content-Type", "application/json")

	var dto WalletDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wallet, err := dtoToWallet(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.Create(r.Context(), wallet)
	if err != nil {
		if errors.Is(err, ErrInvalidKind) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(walletToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	wallets, err := h.service.GetAll(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	dtos := make([]WalletDTO, 0, len(wallets))
	for _, wlt := range wallets {
		dtos = append(dtos, walletToDTO(wlt))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := pathId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	wlt, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(walletToDTO(wlt)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetBalance serves the ledger-derived balance, not the cached running total.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	id, err := pathId(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	balance, err := h.service.Balance(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			http.Error(w, "Wallet not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(map[string]string{"balance": balance.String()}); err != nil {
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

	var dto WalletDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wlt, err := dtoToWallet(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	wlt.ID = id

	updated, err := h.service.Update(r.Context(), wlt)
	if err != nil {
		switch {
		case errors.Is(err, ErrWalletNotFound):
			http.Error(w, "Wallet not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidKind):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	if err := json.NewEncoder(w).Encode(walletToDTO(updated)); err != nil {
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
	if err != nil && !errors.Is(err, ErrWalletNotFound) {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "Wallet not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathId(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return int(id), err
}

func dtoToWallet(dto WalletDTO) (Wallet, error) {
	initial := decimal.Zero
	if dto.InitialBalance != "" {
		var err error
		initial, err = decimal.NewFromString(dto.InitialBalance)
		if err != nil {
			return Wallet{}, err
		}
	}
	return Wallet{
		Name:           dto.Name,
		Kind:           WalletKind(dto.Kind),
		Currency:       dto.Currency,
		InitialBalance: initial,
	}, nil
}

func walletToDTO(w Wallet) WalletDTO {
	return WalletDTO{
		ID:             w.ID,
		Name:           w.Name,
		Kind:           string(w.Kind),
		Currency:       w.Currency,
		InitialBalance: w.InitialBalance.String(),
		CurrentBalance: w.CurrentBalance.String(),
	}
}
