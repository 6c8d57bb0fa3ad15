package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Wallets
	r.HandleFunc("/api/wallet", deps.WalletHandler.Create).Methods("POST")
	r.HandleFunc("/api/wallet", deps.WalletHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/wallet/{id}", deps.WalletHandler.Get).Methods("GET")
	r.HandleFunc("/api/wallet/{id}/balance", deps.WalletHandler.GetBalance).Methods("GET")
	r.HandleFunc("/api/wallet/{id}", deps.WalletHandler.Update).Methods("PUT")
	r.HandleFunc("/api/wallet/{id}", deps.WalletHandler.Delete).Methods("DELETE")

	// Categories
	r.HandleFunc("/api/category", deps.CategoryHandler.Create).Methods("POST")
	r.HandleFunc("/api/category", deps.CategoryHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Update).Methods("PUT")
	r.HandleFunc("/api/category/{id}", deps.CategoryHandler.Delete).Methods("DELETE")

	// Transactions
	r.HandleFunc("/api/transaction", deps.TransactionHandler.Create).Methods("POST")
	r.HandleFunc("/api/transaction", deps.TransactionHandler.List).Methods("GET")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Update).Methods("PUT")
	r.HandleFunc("/api/transaction/{id}", deps.TransactionHandler.Delete).Methods("DELETE")

	// Transfers
	r.HandleFunc("/api/transfer", deps.TransferHandler.Transfer).Methods("POST")

	// Recurring rules
	r.HandleFunc("/api/recurring", deps.RecurringHandler.Create).Methods("POST")
	r.HandleFunc("/api/recurring", deps.RecurringHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/recurring/{id}", deps.RecurringHandler.Update).Methods("PUT")
	r.HandleFunc("/api/recurring/{id}", deps.RecurringHandler.Delete).Methods("DELETE")
	r.HandleFunc("/api/recurring/process", deps.RecurringHandler.Process).Methods("POST")

	// Budgets
	r.HandleFunc("/api/budget", deps.BudgetHandler.Create).Methods("POST")
	r.HandleFunc("/api/budget", deps.BudgetHandler.GetProgress).Queries("month", "{month}").Methods("GET")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Update).Methods("PUT")
	r.HandleFunc("/api/budget/{id}", deps.BudgetHandler.Delete).Methods("DELETE")

	// Goals
	r.HandleFunc("/api/goal", deps.GoalHandler.Create).Methods("POST")
	r.HandleFunc("/api/goal", deps.GoalHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/goal/{id}", deps.GoalHandler.Update).Methods("PUT")
	r.HandleFunc("/api/goal/{id}", deps.GoalHandler.Delete).Methods("DELETE")

	// Allowance plan
	r.HandleFunc("/api/allowance", deps.AllowanceHandler.GetPlan).Queries("month", "{month}").Methods("GET")

	// Reports
	r.HandleFunc("/api/report/monthly", deps.ReportHandler.GetMonthly).Queries("month", "{month}").Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET").Queries("username", "{username}")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")
}
