package allowance

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type DayPlanDTO struct {
	Date   string `json:"date"`
	Cap    string `json:"cap"`
	Spent  string `json:"spent"`
	Status string `json:"status"`
}

type PlanDTO struct {
	Days        []DayPlanDTO `json:"days"`
	NextCap     string       `json:"nextCap"`
	Spendable   string       `json:"spendable"`
	DailySaving string       `json:"dailySaving"`
	SavedAmount string       `json:"savedAmount"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

// GetPlan serves GET /api/allowance?month=YYYY-MM with the planner
// knobs as optional query parameters: budget, dailyTarget, reservation,
// deposits.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	month := query.Get("month")
	if month == "" {
		http.Error(w, "month query parameter is required", http.StatusBadRequest)
		return
	}

	req, err := requestFromQuery(query.Get("budget"), query.Get("dailyTarget"), query.Get("reservation"), query.Get("deposits"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	plan, err := h.service.PlanMonth(r.Context(), month, req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := json.NewEncoder(w).Encode(toPlanDTO(plan)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func requestFromQuery(budget, dailyTarget, reservation, deposits string) (MonthRequest, error) {
	req := MonthRequest{TotalBudget: decimal.Zero, GoalReservation: decimal.Zero}
	var err error
	if budget != "" {
		if req.TotalBudget, err = decimal.NewFromString(budget); err != nil {
			return MonthRequest{}, err
		}
	}
	if dailyTarget != "" {
		target, err := decimal.NewFromString(dailyTarget)
		if err != nil {
			return MonthRequest{}, err
		}
		req.DailyTarget = &target
	}
	if reservation != "" {
		if req.GoalReservation, err = decimal.NewFromString(reservation); err != nil {
			return MonthRequest{}, err
		}
	}
	if deposits != "" {
		if req.DepositCount, err = strconv.Atoi(deposits); err != nil {
			return MonthRequest{}, err
		}
	}
	return req, nil
}

func toPlanDTO(plan Plan) PlanDTO {
	days := make([]DayPlanDTO, 0, len(plan.Days))
	for _, d := range plan.Days {
		days = append(days, DayPlanDTO{
			Date:   d.Date.Format(time.DateOnly),
			Cap:    d.Cap.String(),
			Spent:  d.Spent.String(),
			Status: string(d.Status),
		})
	}
	return PlanDTO{
		Days:        days,
		NextCap:     plan.NextCap.String(),
		Spendable:   plan.Spendable.String(),
		DailySaving: plan.DailySaving.String(),
		SavedAmount: plan.SavedAmount.String(),
	}
}
