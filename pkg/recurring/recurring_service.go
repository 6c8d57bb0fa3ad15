package recurring

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kantong/kantong/internal/database"
	"github.com/kantong/kantong/internal/utils"
	"github.com/kantong/kantong/pkg/category"
	"github.com/kantong/kantong/pkg/transaction"
	"github.com/kantong/kantong/pkg/user"
	"github.com/kantong/kantong/pkg/wallet"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	GetAll(ctx context.Context) ([]Rule, error)
	Create(ctx context.Context, rule Rule) (Rule, error)
	Update(ctx context.Context, rule Rule) (Rule, error)
	Delete(ctx context.Context, id int) (bool, error)
	ProcessDue(ctx context.Context) (Result, error)
}

type ServiceImpl struct {
	db           *sql.DB
	repo         *RepoImpl
	txRepo       *transaction.RepoImpl
	walletRepo   *wallet.RepoImpl
	categoryRepo category.Repo
	clock        utils.Clock
}

func NewRecurringService(
	db *sql.DB,
	repo *RepoImpl,
	txRepo *transaction.RepoImpl,
	walletRepo *wallet.RepoImpl,
	categoryRepo category.Repo,
	clock utils.Clock,
) *ServiceImpl {
	return &ServiceImpl{
		db:           db,
		repo:         repo,
		txRepo:       txRepo,
		walletRepo:   walletRepo,
		categoryRepo: categoryRepo,
		clock:        clock,
	}
}

func (s *ServiceImpl) GetAll(ctx context.Context) ([]Rule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetAll(ctx, userId)
}

func (s *ServiceImpl) Create(ctx context.Context, rule Rule) (Rule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, rule); err != nil {
		return Rule{}, err
	}
	if rule.NextRun.IsZero() {
		rule.NextRun = s.clock.Now()
	}

	id, err := s.repo.Store(ctx, userId, rule)
	if err != nil {
		return Rule{}, err
	}
	rule.ID = id
	return rule, nil
}

func (s *ServiceImpl) Update(ctx context.Context, rule Rule) (Rule, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Rule{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := s.validate(ctx, userId, rule); err != nil {
		return Rule{}, err
	}

	updated, err := s.repo.Update(ctx, userId, rule)
	if err != nil {
		return Rule{}, err
	}
	if !updated {
		return Rule{}, ErrRuleNotFound
	}
	return rule, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int) (bool, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get current user: %w", err)
	}

	deleted, err := s.repo.Delete(ctx, userId, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		log.Warnf("rule not deleted, probably because it does not exist (%d) or the user (%d) is not the owner", id, userId)
		return false, ErrRuleNotFound
	}
	return true, nil
}

// ProcessDue materializes every due rule of the context user, one cadence
// step per rule per call. The whole batch runs in a single transaction:
// materialized rows, wallet deltas, and next_run advances commit together or
// not at all. An EXPENSE rule whose wallet cannot cover the amount is skipped
// but still advanced, so an underfunded rule never wedges the schedule.
//
// Calling again with no time elapsed finds nothing due and is a no-op, which
// makes duplicate scheduler triggers harmless. A rule overdue by several
// periods catches up one step per invocation.
func (s *ServiceImpl) ProcessDue(ctx context.Context) (Result, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to get current user: %w", err)
	}
	now := s.clock.Now()

	var result Result
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		repo := s.repo.WithTx(tx)
		txRepo := s.txRepo.WithTx(tx)
		walletRepo := s.walletRepo.WithTx(tx)

		due, err := repo.FindDue(ctx, userId, now)
		if err != nil {
			return err
		}

		for _, rule := range due {
			w, err := walletRepo.GetById(ctx, userId, rule.WalletId)
			if err != nil {
				return err
			}

			if rule.Kind == category.KindExpense && w.CurrentBalance.LessThan(rule.Amount) {
				log.Infof("skipping recurring rule %d: wallet %d balance %s below amount %s",
					rule.ID, rule.WalletId, w.CurrentBalance, rule.Amount)
				if _, err := repo.UpdateNextRun(ctx, userId, rule.ID, rule.Cadence.Next(rule.NextRun)); err != nil {
					return err
				}
				result.Skipped++
				continue
			}

			t := transaction.Transaction{
				WalletId:   rule.WalletId,
				CategoryId: rule.CategoryId,
				Kind:       rule.Kind,
				Amount:     rule.Amount,
				Date:       rule.NextRun, // dated at the due time, not "now"
				Note:       rule.Note,
			}
			if _, err := txRepo.Store(ctx, userId, t); err != nil {
				return err
			}
			if err := walletRepo.ApplyDelta(ctx, userId, rule.WalletId, t.SignedAmount()); err != nil {
				return err
			}
			if _, err := repo.UpdateNextRun(ctx, userId, rule.ID, rule.Cadence.Next(rule.NextRun)); err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Debugf("recurring processing for user %d: %d created, %d skipped", userId, result.Created, result.Skipped)
	return result, nil
}

func (s *ServiceImpl) validate(ctx context.Context, userId int, rule Rule) error {
	if !rule.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !rule.Cadence.Valid() {
		return ErrInvalidCadence
	}
	cat, err := s.categoryRepo.GetById(ctx, userId, rule.CategoryId)
	if err != nil {
		return err
	}
	if rule.Kind != cat.Kind {
		return transaction.ErrKindMismatch
	}
	if _, err := s.walletRepo.GetById(ctx, userId, rule.WalletId); err != nil {
		return err
	}
	return nil
}
