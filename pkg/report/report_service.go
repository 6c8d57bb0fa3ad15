package report

import (
	"context"
	"fmt"

	"github.com/kantong/kantong/internal/period"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/user"
	"github.com/kantong/kantong/pkg/wallet"
	"github.com/shopspring/decimal"
)

type Service interface {
	MonthlyReport(ctx context.Context, month string) (MonthlyReport, error)
}

type ServiceImpl struct {
	txRepo       transaction.Repo
	walletRepo   wallet.Repo
	categoryRepo category.Repo
}

func NewReportService(txRepo transaction.Repo, walletRepo wallet.Repo, categoryRepo category.Repo) *ServiceImpl {
	return &ServiceImpl{txRepo: txRepo, walletRepo: walletRepo, categoryRepo: categoryRepo}
}

func (s *ServiceImpl) MonthlyReport(ctx context.Context, month string) (MonthlyReport, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("failed to get current user: %w", err)
	}
	window, err := period.Parse(month)
	if err != nil {
		return MonthlyReport{}, err
	}

	transactions, err := s.txRepo.List(ctx, userId, window.Start, window.End)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("failed to list transactions: %w", err)
	}
	walletNames, err := s.walletNames(ctx, userId)
	if err != nil {
		return MonthlyReport{}, err
	}
	categoryNames, err := s.categoryNames(ctx, userId)
	if err != nil {
		return MonthlyReport{}, err
	}

	report := MonthlyReport{
		Month:        window.Label,
		Rows:         make([]Row, 0, len(transactions)),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for _, tx := range transactions {
		report.Rows = append(report.Rows, Row{
			Date:     tx.Date,
			Wallet:   walletNames[tx.WalletId],
			Category: categoryNames[tx.CategoryId],
			Kind:     tx.Kind,
			Amount:   tx.Amount,
			Note:     tx.Note,
		})
		if tx.Kind == category.KindIncome {
			report.TotalIncome = report.TotalIncome.Add(tx.Amount)
		} else {
			report.TotalExpense = report.TotalExpense.Add(tx.Amount)
		}
	}
	report.Net = report.TotalIncome.Sub(report.TotalExpense)
	return report, nil
}

func (s *ServiceImpl) walletNames(ctx context.Context, userId int) (map[int]string, error) {
	wallets, err := s.walletRepo.GetAll(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	names := make(map[int]string, len(wallets))
	for _, w := range wallets {
		names[w.ID] = w.Name
	}
	return names, nil
}

func (s *ServiceImpl) categoryNames(ctx context.Context, userId int) (map[int]string, error) {
	categories, err := s.categoryRepo.GetAll(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}
