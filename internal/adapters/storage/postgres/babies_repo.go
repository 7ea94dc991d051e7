package postgres

import (
	"context"
	"database/sql"
	"errors"

	"baby-care-tracker/internal/domain/babies"
)

type BabiesRepo struct {
	db *sql.DB
}

func NewBabiesRepo(db *sql.DB) *BabiesRepo {
	return &BabiesRepo{db: db}
}

const babyColumns = `id, family_id, name, birth_date, gender, is_active, created_at, updated_at`

func (r *BabiesRepo) Create(ctx context.Context, b babies.Baby) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO babies (`+babyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		b.ID,
		b.FamilyID,
		b.Name,
		b.BirthDate,
		nullString(string(b.Gender)),
		b.IsActive,
		b.CreatedAt,
		b.UpdatedAt,
	)
	return err
}

func (r *BabiesRepo) Update(ctx context.Context, b babies.Baby) error {
	if !validID(b.ID) {
		return babies.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE babies
		SET
			name = $2,
			birth_date = $3,
			gender = $4,
			is_active = $5,
			updated_at = $6
		WHERE id = $1
	`,
		b.ID,
		b.Name,
		b.BirthDate,
		nullString(string(b.Gender)),
		b.IsActive,
		b.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return babies.ErrNotFound
	}
	return nil
}

func (r *BabiesRepo) GetByID(ctx context.Context, id string) (babies.Baby, error) {
	if !validID(id) {
		return babies.Baby{}, babies.ErrNotFound
	}
	return scanBaby(r.db.QueryRowContext(ctx, `
		SELECT `+babyColumns+`
		FROM babies
		WHERE id = $1
	`, id))
}

func (r *BabiesRepo) ListActive(ctx context.Context, familyID string) ([]babies.Baby, error) {
	if !validID(familyID) {
		return []babies.Baby{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+babyColumns+`
		FROM babies
		WHERE family_id = $1 AND is_active
		ORDER BY created_at DESC
	`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]babies.Baby, 0)
	for rows.Next() {
		b, err := scanBaby(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBaby(row rowScanner) (babies.Baby, error) {
	var (
		b      babies.Baby
		gender sql.NullString
	)
	if err := row.Scan(
		&b.ID,
		&b.FamilyID,
		&b.Name,
		&b.BirthDate,
		&gender,
		&b.IsActive,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return babies.Baby{}, babies.ErrNotFound
		}
		return babies.Baby{}, err
	}
	// birth_date es DATE: pgx lo trae como medianoche UTC
	b.BirthDate = b.BirthDate.UTC()
	b.Gender = babies.Gender(gender.String)
	return b, nil
}
