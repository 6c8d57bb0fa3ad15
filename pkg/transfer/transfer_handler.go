package transfer

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/kantong/kantong/pkg/wallet"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type TransferRequestDTO struct {
	FromWalletId int        `json:"fromWalletId"`
	ToWalletId   int        `json:"toWalletId"`
	Amount       string     `json:"amount"`
	Fee          string     `json:"fee,omitempty"`
	Date         *time.Time `json:"date,omitempty"`
	Note         string     `json:"note,omitempty"`
}

type TransferResultDTO struct {
	Uid     string `json:"uid"`
	OutTxId int    `json:"outTransactionId"`
	InTxId  int    `json:"inTransactionId"`
	FeeTxId *int   `json:"feeTransactionId,omitempty"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	log.Debug("Processing wallet transfer")
	w.Header().Set("Content-Type", "application/json")

	var dto TransferRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req, err := dtoToRequest(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Transfer(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, wallet.ErrWalletNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrSameWallet), errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeFee):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	resultDTO := TransferResultDTO{
		Uid:     result.Uid,
		OutTxId: result.OutTx.ID,
		InTxId:  result.InTx.ID,
	}
	if result.FeeTx != nil {
		feeId := result.FeeTx.ID
		resultDTO.FeeTxId = &feeId
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resultDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func dtoToRequest(dto TransferRequestDTO) (Request, error) {
	amount, err := decimal.NewFromString(dto.Amount)
	if err != nil {
		return Request{}, err
	}
	fee := decimal.Zero
	if dto.Fee != "" {
		if fee, err = decimal.NewFromString(dto.Fee); err != nil {
			return Request{}, err
		}
	}
	req := Request{
		FromWalletId: dto.FromWalletId,
		ToWalletId:   dto.ToWalletId,
		Amount:       amount,
		Fee:          fee,
		Note:         dto.Note,
	}
	if dto.Date != nil {
		req.Date = *dto.Date
	}
	return req, nil
}
