package postgres

import (
	"context"
	"database/sql"
	"errors"

	"baby-care-tracker/internal/domain/families"
)

type FamiliesRepo struct {
	db *sql.DB
}

func NewFamiliesRepo(db *sql.DB) *FamiliesRepo {
	return &FamiliesRepo{db: db}
}

func (r *FamiliesRepo) Create(ctx context.Context, f families.Family) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO families (id, name, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, f.ID, f.Name, f.Phone, f.CreatedAt, f.UpdatedAt)
	return err
}

func (r *FamiliesRepo) GetByID(ctx context.Context, id string) (families.Family, error) {
	if !validID(id) {
		return families.Family{}, families.ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, created_at, updated_at
		FROM families
		WHERE id = $1
	`, id))
}

func (r *FamiliesRepo) GetByPhone(ctx context.Context, phone string) (families.Family, error) {
	if phone == "" {
		return families.Family{}, families.ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, created_at, updated_at
		FROM families
		WHERE phone = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, phone))
}

func (r *FamiliesRepo) scanOne(row *sql.Row) (families.Family, error) {
	var f families.Family
	if err := row.Scan(&f.ID, &f.Name, &f.Phone, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return families.Family{}, families.ErrNotFound
		}
		return families.Family{}, err
	}
	return f, nil
}
