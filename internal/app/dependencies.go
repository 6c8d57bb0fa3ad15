package app

import (
	"database/sql"

	"github.com/kantong/kantong/internal/utils"
	"github.com/kantong/kantong/pkg/allowance"
	"github.com/kantong/kantong/pkg/budget"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/goal"
	"github.com/kantong/kantong/pkg/recurring"
	"github.com/kantong/kantong/pkg/report"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/transfer"
	"github.com/kantong/kantong/pkg/user"
	"github.com/kantong/kantong/pkg/wallet"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	WalletRepo    *wallet.RepoImpl
	WalletService *wallet.ServiceImpl
	WalletHandler *wallet.Handler

	CategoryRepo    *category.RepoImpl
	CategoryService *category.ServiceImpl
	CategoryHandler *category.Handler

	TransactionRepo    *transaction.RepoImpl
	TransactionService *transaction.ServiceImpl
	TransactionHandler *transaction.Handler

	TransferService *transfer.ServiceImpl
	TransferHandler *transfer.Handler

	RecurringRepo    *recurring.RepoImpl
	RecurringService *recurring.ServiceImpl
	RecurringHandler *recurring.Handler

	BudgetRepo    *budget.RepoImpl
	BudgetService *budget.ServiceImpl
	BudgetHandler *budget.Handler

	GoalRepo    *goal.RepoImpl
	GoalService *goal.ServiceImpl
	GoalHandler *goal.Handler

	AllowanceService *allowance.ServiceImpl
	AllowanceHandler *allowance.Handler

	ReportService     *report.ServiceImpl
	CsvReportRenderer *report.CsvReportRendererImpl
	ReportHandler     *report.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.WalletRepo = wallet.NewWalletRepo(db)
	deps.CategoryRepo = category.NewCategoryRepo(db)
	deps.TransactionRepo = transaction.NewTransactionRepo(db)

	deps.WalletService = wallet.NewWalletService(db, deps.WalletRepo, deps.TransactionRepo)
	deps.WalletHandler = wallet.NewHandler(deps.WalletService)

	deps.CategoryService = category.NewCategoryService(deps.CategoryRepo)
	deps.CategoryHandler = category.NewHandler(deps.CategoryService)

	deps.TransactionService = transaction.NewTransactionService(db, deps.TransactionRepo, deps.WalletRepo, deps.CategoryRepo)
	deps.TransactionHandler = transaction.NewHandler(deps.TransactionService)

	deps.TransferService = transfer.NewTransferService(db, deps.TransactionRepo, deps.WalletRepo, deps.CategoryRepo)
	deps.TransferHandler = transfer.NewHandler(deps.TransferService)

	deps.RecurringRepo = recurring.NewRecurringRepo(db)
	deps.RecurringService = recurring.NewRecurringService(db, deps.RecurringRepo, deps.TransactionRepo, deps.WalletRepo, deps.CategoryRepo, deps.Clock)
	deps.RecurringHandler = recurring.NewHandler(deps.RecurringService)

	deps.BudgetRepo = budget.NewBudgetRepo(db)
	deps.BudgetService = budget.NewBudgetService(deps.BudgetRepo, deps.CategoryRepo, deps.TransactionRepo)
	deps.BudgetHandler = budget.NewHandler(deps.BudgetService)

	deps.GoalRepo = goal.NewGoalRepo(db)
	deps.GoalService = goal.NewGoalService(deps.GoalRepo)
	deps.GoalHandler = goal.NewHandler(deps.GoalService)

	deps.AllowanceService = allowance.NewAllowanceService(deps.TransactionRepo, deps.Clock)
	deps.AllowanceHandler = allowance.NewHandler(deps.AllowanceService)

	deps.ReportService = report.NewReportService(deps.TransactionRepo, deps.WalletRepo, deps.CategoryRepo)
	deps.CsvReportRenderer = report.NewCsvReportRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvReportRenderer)

	return deps
}
