package postgres

import (
	"context"
	"database/sql"
	"errors"

	"baby-care-tracker/internal/domain/caregivers"
)

type CaregiversRepo struct {
	db *sql.DB
}

func NewCaregiversRepo(db *sql.DB) *CaregiversRepo {
	return &CaregiversRepo{db: db}
}

const caregiverColumns = `id, family_id, name, phone, email, relationship, is_primary, created_at, updated_at`

func (r *CaregiversRepo) Create(ctx context.Context, c caregivers.Caregiver) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO caregivers (`+caregiverColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		c.ID,
		c.FamilyID,
		c.Name,
		nullString(c.Phone),
		nullString(c.Email),
		nullString(string(c.Relationship)),
		c.IsPrimary,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return caregivers.ErrPhoneTaken
	}
	return err
}

func (r *CaregiversRepo) Update(ctx context.Context, c caregivers.Caregiver) error {
	if !validID(c.ID) {
		return caregivers.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE caregivers
		SET
			name = $2,
			phone = $3,
			email = $4,
			relationship = $5,
			is_primary = $6,
			updated_at = $7
		WHERE id = $1
	`,
		c.ID,
		c.Name,
		nullString(c.Phone),
		nullString(c.Email),
		nullString(string(c.Relationship)),
		c.IsPrimary,
		c.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return caregivers.ErrPhoneTaken
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return caregivers.ErrNotFound
	}
	return nil
}

func (r *CaregiversRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return caregivers.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM caregivers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return caregivers.ErrNotFound
	}
	return nil
}

func (r *CaregiversRepo) GetByID(ctx context.Context, id string) (caregivers.Caregiver, error) {
	if !validID(id) {
		return caregivers.Caregiver{}, caregivers.ErrNotFound
	}
	return scanCaregiver(r.db.QueryRowContext(ctx, `
		SELECT `+caregiverColumns+`
		FROM caregivers
		WHERE id = $1
	`, id))
}

func (r *CaregiversRepo) GetByPhone(ctx context.Context, phone string) (caregivers.Caregiver, error) {
	if phone == "" {
		return caregivers.Caregiver{}, caregivers.ErrNotFound
	}
	return scanCaregiver(r.db.QueryRowContext(ctx, `
		SELECT `+caregiverColumns+`
		FROM caregivers
		WHERE phone = $1
		ORDER BY (email IS NULL) ASC, created_at ASC
		LIMIT 1
	`, phone))
}

func (r *CaregiversRepo) ListByFamily(ctx context.Context, familyID string) ([]caregivers.Caregiver, error) {
	if !validID(familyID) {
		return []caregivers.Caregiver{}, nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+caregiverColumns+`
		FROM caregivers
		WHERE family_id = $1
		ORDER BY is_primary DESC, created_at ASC
	`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]caregivers.Caregiver, 0)
	for rows.Next() {
		c, err := scanCaregiver(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCaregiver(row rowScanner) (caregivers.Caregiver, error) {
	var (
		c                   caregivers.Caregiver
		phone, email, relat sql.NullString
	)
	if err := row.Scan(
		&c.ID,
		&c.FamilyID,
		&c.Name,
		&phone,
		&email,
		&relat,
		&c.IsPrimary,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return caregivers.Caregiver{}, caregivers.ErrNotFound
		}
		return caregivers.Caregiver{}, err
	}
	c.Phone = phone.String
	c.Email = email.String
	c.Relationship = caregivers.Relationship(relat.String)
	return c, nil
}
