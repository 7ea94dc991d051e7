package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"baby-care-tracker/internal/domain/activities"
)

type ActivitiesRepo struct {
	db *sql.DB
}

func NewActivitiesRepo(db *sql.DB) *ActivitiesRepo {
	return &ActivitiesRepo{db: db}
}

func tableFor(kind activities.Kind) (recordTable, error) {
	t, ok := recordTables[kind]
	if !ok {
		return recordTable{}, fmt.Errorf("%w: unknown kind %q", activities.ErrInvalidInput, kind)
	}
	return t, nil
}

// selectColumns arma el SELECT común: id, baby, caregiver, inicio, fin, notas, timestamps, detalle.
func (t recordTable) selectColumns(alias string) string {
	end := "NULL::timestamptz"
	if t.end != "" {
		end = alias + "." + t.end
	}
	cols := []string{
		alias + ".id",
		alias + ".baby_id",
		alias + ".caregiver_id",
		alias + "." + t.start,
		end,
		alias + ".notes",
		alias + ".created_at",
		alias + ".updated_at",
	}
	for _, c := range t.detail {
		cols = append(cols, alias+"."+c)
	}
	return strings.Join(cols, ", ")
}

func (r *ActivitiesRepo) Create(ctx context.Context, rec activities.Record) error {
	t, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}

	cols := []string{"id", "baby_id", "caregiver_id", t.start, "notes", "created_at", "updated_at"}
	args := []any{rec.ID, rec.BabyID, nullString(rec.CaregiverID), rec.StartedAt, nullString(rec.Notes), rec.CreatedAt, rec.UpdatedAt}
	if t.end != "" {
		cols = append(cols, t.end)
		args = append(args, nullTime(rec.EndedAt))
	}
	cols = append(cols, t.detail...)
	args = append(args, t.values(rec)...)

	_, err = r.db.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, t.name, strings.Join(cols, ", "), placeholders(1, len(args))),
		args...,
	)
	if isUniqueViolation(err) {
		return activities.ErrInProgress
	}
	return err
}

func (r *ActivitiesRepo) Update(ctx context.Context, rec activities.Record) error {
	t, err := tableFor(rec.Kind)
	if err != nil {
		return err
	}
	if !validID(rec.ID) {
		return activities.ErrNotFound
	}

	cols := []string{t.start, "caregiver_id", "notes", "updated_at"}
	args := []any{rec.ID, rec.StartedAt, nullString(rec.CaregiverID), nullString(rec.Notes), rec.UpdatedAt}
	if t.end != "" {
		cols = append(cols, t.end)
		args = append(args, nullTime(rec.EndedAt))
	}
	cols = append(cols, t.detail...)
	args = append(args, t.values(rec)...)

	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}

	res, err := r.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1`, t.name, strings.Join(sets, ", ")),
		args...,
	)
	if isUniqueViolation(err) {
		return activities.ErrInProgress
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return activities.ErrNotFound
	}
	return nil
}

func (r *ActivitiesRepo) Delete(ctx context.Context, kind activities.Kind, id string) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	if !validID(id) {
		return activities.ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, t.name), id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return activities.ErrNotFound
	}
	return nil
}

func (r *ActivitiesRepo) GetByID(ctx context.Context, kind activities.Kind, id string) (activities.Record, error) {
	t, err := tableFor(kind)
	if err != nil {
		return activities.Record{}, err
	}
	if !validID(id) {
		return activities.Record{}, activities.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s r WHERE r.id = $1`, t.selectColumns("r"), t.name), id)
	rec, err := scanRecord(kind, t, row)
	if errors.Is(err, sql.ErrNoRows) {
		return activities.Record{}, activities.ErrNotFound
	}
	return rec, err
}

// List consulta cada tabla pedida (acotada a la familia vía babies) y mezcla por StartedAt desc.
func (r *ActivitiesRepo) List(ctx context.Context, f activities.ListFilter) ([]activities.Record, error) {
	if !validID(f.FamilyID) {
		return []activities.Record{}, nil
	}

	out := make([]activities.Record, 0)
	for _, kind := range activities.AllKinds {
		if !f.HasKind(kind) {
			continue
		}
		recs, err := r.listKind(ctx, kind, f)
		if err != nil {
			return nil, err
		}
		out = append(out, recs...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *ActivitiesRepo) listKind(ctx context.Context, kind activities.Kind, f activities.ListFilter) ([]activities.Record, error) {
	t := recordTables[kind]

	where := []string{"b.family_id = $1"}
	args := []any{f.FamilyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if len(f.BabyIDs) > 0 {
		ids := make([]string, 0, len(f.BabyIDs))
		for _, id := range f.BabyIDs {
			if validID(id) {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, nil
		}
		add("r.baby_id = ANY($%d::uuid[])", ids)
	}
	if f.From != nil {
		add("r."+t.start+" >= $%d", *f.From)
	}
	if f.To != nil {
		add("r."+t.start+" < $%d", *f.To)
	}
	if f.InProgressOnly {
		if t.end == "" {
			return nil, nil
		}
		where = append(where, "r."+t.end+" IS NULL")
		if kind == activities.KindFeeding {
			where = append(where, "r.feeding_type = 'breast'")
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s r
		JOIN babies b ON b.id = r.baby_id
		WHERE %s
		ORDER BY r.%s DESC
	`, t.selectColumns("r"), t.name, strings.Join(where, " AND "), t.start)
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]activities.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(kind, t, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(kind activities.Kind, t recordTable, row rowScanner) (activities.Record, error) {
	var (
		rec       activities.Record
		caregiver sql.NullString
		notes     sql.NullString
		ended     sql.NullTime
	)
	detailDest, build := t.scan()

	dest := []any{&rec.ID, &rec.BabyID, &caregiver, &rec.StartedAt, &ended, &notes, &rec.CreatedAt, &rec.UpdatedAt}
	dest = append(dest, detailDest...)
	if err := row.Scan(dest...); err != nil {
		return activities.Record{}, err
	}

	rec.Kind = kind
	rec.CaregiverID = caregiver.String
	rec.Notes = notes.String
	rec.EndedAt = timeOrNil(ended)
	rec.Detail = build()
	return rec, nil
}

func placeholders(from, n int) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ps, ",")
}
