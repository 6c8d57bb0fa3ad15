package report

import (
	"fmt"
	"net/http"
)

type Handler struct {
	service  Service
	renderer Renderer
}

func NewHandler(service Service, renderer Renderer) *Handler {
	return &Handler{service, renderer}
}

// GetMonthly serves GET /api/report/monthly?month=YYYY-MM as a CSV
// download.
func (h *Handler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		http.Error(w, "month query parameter is required", http.StatusBadRequest)
		return
	}

	report, err := h.service.MonthlyReport(r.Context(), month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	csv, err := h.renderer.Render(report)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "kantong-"+report.Month+".csv"))
	if _, err := w.Write([]byte(csv)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
