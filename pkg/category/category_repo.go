package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kantong/kantong/internal/database"
	log "github.com/sirupsen/logrus"
)

type Repo interface {
	Store(ctx context.Context, userId int, category Category) (int, error)
	GetAll(ctx context.Context, userId int) ([]Category, error)
	GetById(ctx context.Context, userId int, categoryId int) (Category, error)
	Update(ctx context.Context, userId int, category Category) (bool, error)
	Delete(ctx context.Context, userId int, categoryId int) (bool, error)
	IsReferenced(ctx context.Context, userId int, categoryId int) (bool, error)
	FindByTag(ctx context.Context, userId int, tag string) (Category, error)
}

type RepoImpl struct {
	db database.DBTX
}

func NewCategoryRepo(db database.DBTX) *RepoImpl {
	return &RepoImpl{db: db}
}

// WithTx returns a copy of the repository bound to tx, so category writes can
// join a caller's transactional scope.
func (r *RepoImpl) WithTx(tx *sql.Tx) *RepoImpl {
	return &RepoImpl{db: tx}
}

func (r *RepoImpl) Store(ctx context.Context, userId int, category Category) (int, error) {
	query := `INSERT INTO category (user_id, name, kind, is_default, tag) VALUES (?, ?, ?, ?, ?)`

	var tag any
	if category.Tag != "" {
		tag = category.Tag
	}
	result, err := r.db.ExecContext(ctx, query, userId, category.Name, string(category.Kind), category.IsDefault, tag)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return 0, err
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		err := fmt.Errorf("could not retrieve last insert id: %w", err)
		log.Error(err)
		return 0, err
	}
	return int(lastInsertID), nil
}

func (r *RepoImpl) GetAll(ctx context.Context, userId int) ([]Category, error) {
	query := `SELECT id, name, kind, is_default, tag FROM category WHERE user_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userId)
	if err != nil {
		err := fmt.Errorf("could not query categories: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		category, err := scanCategory(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		err := fmt.Errorf("error iterating over rows: %w", err)
		log.Error(err)
		return nil, err
	}
	return categories, nil
}

func (r *RepoImpl) GetById(ctx context.Context, userId int, categoryId int) (Category, error) {
	query := `SELECT id, name, kind, is_default, tag FROM category WHERE id = ? AND user_id = ?`
	row := r.db.QueryRowContext(ctx, query, categoryId, userId)
	category, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	} else if err != nil {
		log.Error(err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepoImpl) FindByTag(ctx context.Context, userId int, tag string) (Category, error) {
	query := `SELECT id, name, kind, is_default, tag FROM category WHERE user_id = ? AND tag = ?`
	row := r.db.QueryRowContext(ctx, query, userId, tag)
	category, err := scanCategory(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrCategoryNotFound
	} else if err != nil {
		log.Error(err)
		return Category{}, err
	}
	return category, nil
}

func (r *RepoImpl) Update(ctx context.Context, userId int, category Category) (bool, error) {
	query := `UPDATE category SET name = ?, kind = ? WHERE id = ? AND user_id = ?`
	result, err := r.db.ExecContext(ctx, query, category.Name, string(category.Kind), category.ID, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) Delete(ctx context.Context, userId int, categoryId int) (bool, error) {
	query := `DELETE FROM category WHERE id = ? AND user_id = ? AND is_default = 0`
	result, err := r.db.ExecContext(ctx, query, categoryId, userId)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return false, err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		err := fmt.Errorf("could not get rows affected: %w", err)
		log.Error(err)
		return false, err
	}
	return rowsAffected == 1, nil
}

func (r *RepoImpl) IsReferenced(ctx context.Context, userId int, categoryId int) (bool, error) {
	query := `SELECT COUNT(1) FROM transactions WHERE user_id = ? AND category_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userId, categoryId).Scan(&count); err != nil {
		log.Errorf("could not count category references: %v", err)
		return false, err
	}
	return count > 0, nil
}

// EnsureByTag finds the user's system category for tag, creating it when
// missing. Transfer runs this on a tx-bound repo so the legs and their
// categories commit together.
func (r *RepoImpl) EnsureByTag(ctx context.Context, userId int, tag string) (Category, error) {
	existing, err := r.FindByTag(ctx, userId, tag)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrCategoryNotFound) {
		return Category{}, err
	}

	category := systemCategoryForTag(tag)
	id, err := r.Store(ctx, userId, category)
	if err != nil {
		return Category{}, fmt.Errorf("could not create system category %q: %w", tag, err)
	}
	category.ID = id
	return category, nil
}

func systemCategoryForTag(tag string) Category {
	switch tag {
	case TagTransferIn:
		return Category{Name: "Transfer In", Kind: KindIncome, IsDefault: true, Tag: tag}
	case TagTransferFee:
		return Category{Name: "Transfer Fee", Kind: KindExpense, IsDefault: true, Tag: tag}
	default:
		return Category{Name: "Transfer Out", Kind: KindExpense, IsDefault: true, Tag: TagTransferOut}
	}
}

func scanCategory(scan func(dest ...any) error) (Category, error) {
	var category Category
	var kind string
	var tag sql.NullString
	if err := scan(&category.ID, &category.Name, &kind, &category.IsDefault, &tag); err != nil {
		return Category{}, err
	}
	category.Kind = Kind(kind)
	if tag.Valid {
		category.Tag = tag.String
	}
	return category, nil
}
