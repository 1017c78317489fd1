package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bookreview/internal/common"
	"bookreview/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	// Create persists the identity. The store enforces (full_name, pin_code)
	// uniqueness; a duplicate pair comes back as common.ErrConflict so the
	// caller can retry with a fresh PIN.
	Create(ctx context.Context, user *model.User) error
	FindByName(ctx context.Context, fullName string) (*model.User, error)
	// FindByNameFold matches full_name case-insensitively (login lookup).
	FindByNameFold(ctx context.Context, fullName string) (*model.User, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	ExistsWithPin(ctx context.Context, fullName, pin string) (bool, error)
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (full_name, pin_code, role)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, user.FullName, user.PinCode, user.Role).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (full_name, pin_code) unique
			return fmt.Errorf("user with this name and PIN already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByName(ctx context.Context, fullName string) (*model.User, error) {
	query := `SELECT id, full_name, pin_code, role, created_at
	          FROM users WHERE full_name = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, fullName), "FindByName")
}

func (r *pgUserRepository) FindByNameFold(ctx context.Context, fullName string) (*model.User, error) {
	query := `SELECT id, full_name, pin_code, role, created_at
	          FROM users WHERE LOWER(full_name) = LOWER($1)`
	return r.scanOne(r.db.QueryRowContext(ctx, query, fullName), "FindByNameFold")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT id, full_name, pin_code, role, created_at
	          FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgUserRepository) ExistsWithPin(ctx context.Context, fullName, pin string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE full_name = $1 AND pin_code = $2)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, fullName, pin).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgUserRepository.ExistsWithPin: %w", err)
	}
	return exists, nil
}

func (r *pgUserRepository) List(ctx context.Context) ([]model.User, error) {
	query := `SELECT id, full_name, pin_code, role, created_at
	          FROM users ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgUserRepository.List: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.FullName, &u.PinCode, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgUserRepository.List scan: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgUserRepository.List rows: %w", err)
	}
	return users, nil
}

func (r *pgUserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgUserRepository.Delete rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgUserRepository) scanOne(row *sql.Row, op string) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.FullName, &user.PinCode, &user.Role, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", op, err)
	}
	return user, nil
}
