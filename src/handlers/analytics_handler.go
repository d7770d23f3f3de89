package handlers

import (
	"bytes"
	"fintrack-server/src/models"
	"fintrack-server/src/services"
	"fintrack-server/src/util"
	"net/http"
)

func GetDashboardSummary(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		summary, err := analytics.Dashboard(r.Context(), userID, r.URL.Query().Get("period"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Dashboard data retrieved successfully", summary)
	}
}

func GetExpensesByCategory(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		breakdown, err := analytics.ExpensesByCategory(r.Context(), userID, r.URL.Query().Get("period"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		message := "Expenses by category retrieved successfully"
		if breakdown.IsEmpty {
			message = "No expenses found for this period"
		}
		util.WriteJSON(w, http.StatusOK, message, breakdown)
	}
}

func GetTopSpendingCategories(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		q := r.URL.Query()

		top, err := analytics.TopSpendingCategories(r.Context(), userID, q.Get("period"), q.Get("limit"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Top spending categories retrieved successfully", top)
	}
}

func GetMonthlyTrends(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		trends, err := analytics.MonthlyTrends(r.Context(), userID, r.URL.Query().Get("months"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Monthly trends retrieved successfully", map[string]any{"chartData": trends})
	}
}

func GetCumulativeBalance(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		balance, err := analytics.CumulativeBalance(r.Context(), userID, r.URL.Query().Get("period"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		util.WriteJSON(w, http.StatusOK, "Cumulative balance retrieved successfully", balance)
	}
}

// ExportData streams the user's transactions as json, csv or xlsx.
func ExportData(analytics *services.AnalyticsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			util.WriteError(w, r, err)
			return
		}
		q := r.URL.Query()

		format, txns, err := analytics.Export(r.Context(), userID, q.Get("format"), q.Get("startDate"), q.Get("endDate"))
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		var (
			buf         bytes.Buffer
			contentType string
			filename    string
		)
		switch format {
		case models.ExportFormatCSV:
			contentType, filename = "text/csv", "transactions.csv"
			err = services.WriteCSV(&buf, txns)
		case models.ExportFormatXLSX:
			contentType, filename = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "transactions.xlsx"
			err = services.WriteXLSX(&buf, txns)
		default:
			util.WriteJSON(w, http.StatusOK, "Data exported successfully", map[string]any{"transactions": txns})
			return
		}
		if err != nil {
			util.WriteError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
