package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"
)

type ExperienceRepository interface {
	Create(ctx context.Context, req *model.CreateExperienceRequest) (*model.Experience, error)
	List(ctx context.Context) ([]*model.Experience, error)
	FindByID(ctx context.Context, id int) (*model.Experience, error)
	FindByExperienceID(ctx context.Context, experienceID uuid.UUID) (*model.Experience, error)
	Search(ctx context.Context, query string) ([]*model.Experience, error)
	Update(ctx context.Context, id int, params model.UpdateExperienceParams) (*model.Experience, error)
	BulkReplace(ctx context.Context, reqs []model.CreateExperienceRequest) ([]*model.Experience, error)
	ListTimeSlots(ctx context.Context, experienceID int) ([]model.TimeSlot, error)

	// Transaction methods
	FindSlotForUpdate(ctx context.Context, tx pgx.Tx, experienceID int, timeLabel string) (*model.TimeSlot, error)
	DecrementAvailability(ctx context.Context, tx pgx.Tx, experienceID int, timeLabel string, quantity int) error
	IncrementAvailability(ctx context.Context, tx pgx.Tx, experienceID int, timeLabel string, quantity int) error
}

type ExperienceRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewExperienceRepository(pool *pgxpool.Pool) ExperienceRepository {
	return &ExperienceRepositoryImpl{
		pool: pool,
	}
}

const experienceColumns = `id, experience_id, title, location, description, image_url,
		details, price, base_price, tax_rate, dates, created_at, updated_at`

func scanExperience(row pgx.Row) (*model.Experience, error) {
	var exp model.Experience
	err := row.Scan(
		&exp.ID,
		&exp.ExperienceID,
		&exp.Title,
		&exp.Location,
		&exp.Description,
		&exp.ImageURL,
		&exp.Details,
		&exp.Price,
		&exp.BasePrice,
		&exp.TaxRate,
		&exp.Dates,
		&exp.CreatedAt,
		&exp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (r *ExperienceRepositoryImpl) Create(ctx context.Context, req *model.CreateExperienceRequest) (*model.Experience, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	exp, err := r.insertExperience(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return exp, nil
}

// insertExperience writes one experience and its slots inside tx.
func (r *ExperienceRepositoryImpl) insertExperience(ctx context.Context, tx pgx.Tx, req *model.CreateExperienceRequest) (*model.Experience, error) {
	taxRate := model.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	query := `
		INSERT INTO experiences (
			experience_id, title, location, description, image_url,
			details, price, base_price, tax_rate, dates)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + experienceColumns

	exp, err := scanExperience(tx.QueryRow(ctx, query,
		uuid.New(), req.Title, req.Location, req.Description, req.ImageURL,
		req.Details, req.Price, req.BasePrice, taxRate, req.Dates,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create experience: %w", err)
	}

	for _, slot := range req.Times {
		var ts model.TimeSlot
		err := tx.QueryRow(ctx, `
			INSERT INTO time_slots (experience_id, time_label, available, total)
			VALUES ($1, $2, $3, $3)
			RETURNING id, time_label, available, total
		`, exp.ID, slot.Time, slot.Available).Scan(&ts.ID, &ts.TimeLabel, &ts.Available, &ts.Total)
		if err != nil {
			return nil, fmt.Errorf("failed to create time slot: %w", err)
		}
		exp.TimeSlots = append(exp.TimeSlots, ts)
	}

	return exp, nil
}

func (r *ExperienceRepositoryImpl) List(ctx context.Context) ([]*model.Experience, error) {
	query := `
		SELECT ` + experienceColumns + `
		FROM experiences
		ORDER BY created_at DESC
	`
	return r.queryExperiences(ctx, query)
}

func (r *ExperienceRepositoryImpl) Search(ctx context.Context, search string) ([]*model.Experience, error) {
	query := `
		SELECT ` + experienceColumns + `
		FROM experiences
		WHERE title ILIKE '%' || $1 || '%'
		ORDER BY created_at DESC
	`
	return r.queryExperiences(ctx, query, search)
}

func (r *ExperienceRepositoryImpl) queryExperiences(ctx context.Context, query string, args ...interface{}) ([]*model.Experience, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	experiences := make([]*model.Experience, 0)

	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachTimeSlots(ctx, experiences); err != nil {
		return nil, err
	}

	return experiences, nil
}

// attachTimeSlots loads the slots for all given experiences in one query.
func (r *ExperienceRepositoryImpl) attachTimeSlots(ctx context.Context, experiences []*model.Experience) error {
	if len(experiences) == 0 {
		return nil
	}

	ids := make([]int, 0, len(experiences))
	byID := make(map[int]*model.Experience, len(experiences))
	for _, exp := range experiences {
		ids = append(ids, exp.ID)
		byID[exp.ID] = exp
		exp.TimeSlots = make([]model.TimeSlot, 0)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT experience_id, id, time_label, available, total
		FROM time_slots
		WHERE experience_id = ANY($1)
		ORDER BY id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var expID int
		var ts model.TimeSlot
		if err := rows.Scan(&expID, &ts.ID, &ts.TimeLabel, &ts.Available, &ts.Total); err != nil {
			return err
		}
		if exp, ok := byID[expID]; ok {
			exp.TimeSlots = append(exp.TimeSlots, ts)
		}
	}

	return rows.Err()
}

func (r *ExperienceRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Experience, error) {
	query := `
		SELECT ` + experienceColumns + `
		FROM experiences
		WHERE id = $1
	`

	exp, err := scanExperience(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrExperienceNotFound
		}
		return nil, err
	}

	if err := r.attachTimeSlots(ctx, []*model.Experience{exp}); err != nil {
		return nil, err
	}

	return exp, nil
}

func (r *ExperienceRepositoryImpl) FindByExperienceID(ctx context.Context, experienceID uuid.UUID) (*model.Experience, error) {
	query := `
		SELECT ` + experienceColumns + `
		FROM experiences
		WHERE experience_id = $1
	`

	exp, err := scanExperience(r.pool.QueryRow(ctx, query, experienceID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrExperienceNotFound
		}
		return nil, err
	}

	if err := r.attachTimeSlots(ctx, []*model.Experience{exp}); err != nil {
		return nil, err
	}

	return exp, nil
}

func (r *ExperienceRepositoryImpl) Update(ctx context.Context, id int, params model.UpdateExperienceParams) (*model.Experience, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		addSet("title", *params.Title)
	}
	if params.Location != nil {
		addSet("location", *params.Location)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}
	if params.ImageURL != nil {
		addSet("image_url", *params.ImageURL)
	}
	if params.Details != nil {
		addSet("details", *params.Details)
	}
	if params.Price != nil {
		addSet("price", *params.Price)
	}
	if params.BasePrice != nil {
		addSet("base_price", *params.BasePrice)
	}
	if params.TaxRate != nil {
		addSet("tax_rate", *params.TaxRate)
	}
	if params.Dates != nil {
		addSet("dates", *params.Dates)
	}

	if len(sets) == 0 && params.Times == nil {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	addSet("updated_at", time.Now().UTC())
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE experiences
		SET %s
		WHERE id = $%d
		RETURNING `+experienceColumns, strings.Join(sets, ", "), argPos)

	exp, err := scanExperience(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrExperienceNotFound
		}
		return nil, err
	}

	// replacing the slot set discards previous availability counts
	if params.Times != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM time_slots WHERE experience_id = $1`, id); err != nil {
			return nil, err
		}
		for _, slot := range *params.Times {
			if _, err := tx.Exec(ctx, `
				INSERT INTO time_slots (experience_id, time_label, available, total)
				VALUES ($1, $2, $3, $3)
			`, id, slot.Time, slot.Available); err != nil {
				return nil, fmt.Errorf("failed to replace time slots: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if err := r.attachTimeSlots(ctx, []*model.Experience{exp}); err != nil {
		return nil, err
	}

	return exp, nil
}

// BulkReplace discards the entire catalog and inserts the given set in a
// single transaction. Destructive by design of the admin bulk upload.
func (r *ExperienceRepositoryImpl) BulkReplace(ctx context.Context, reqs []model.CreateExperienceRequest) ([]*model.Experience, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM experiences`); err != nil {
		return nil, fmt.Errorf("failed to clear experiences: %w", err)
	}

	experiences := make([]*model.Experience, 0, len(reqs))
	for i := range reqs {
		exp, err := r.insertExperience(ctx, tx, &reqs[i])
		if err != nil {
			return nil, err
		}
		experiences = append(experiences, exp)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return experiences, nil
}

func (r *ExperienceRepositoryImpl) ListTimeSlots(ctx context.Context, experienceID int) ([]model.TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, time_label, available, total
		FROM time_slots
		WHERE experience_id = $1
		ORDER BY id
	`, experienceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]model.TimeSlot, 0)
	for rows.Next() {
		var ts model.TimeSlot
		if err := rows.Scan(&ts.ID, &ts.TimeLabel, &ts.Available, &ts.Total); err != nil {
			return nil, err
		}
		slots = append(slots, ts)
	}

	return slots, rows.Err()
}

// FindSlotForUpdate locks the slot row, serializing concurrent admissions
// against the same time slot for the rest of the transaction.
func (r *ExperienceRepositoryImpl) FindSlotForUpdate(ctx context.Context, tx pgx.Tx, experienceID int, timeLabel string) (*model.TimeSlot, error) {
	query := `
		SELECT id, time_label, available, total
		FROM time_slots
		WHERE experience_id = $1 AND time_label = $2
		FOR UPDATE
	`

	var ts model.TimeSlot
	err := tx.QueryRow(ctx, query, experienceID, timeLabel).Scan(
		&ts.ID,
		&ts.TimeLabel,
		&ts.Available,
		&ts.Total,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrTimeSlotNotFound
		}
		return nil, err
	}

	return &ts, nil
}

func (r *ExperienceRepositoryImpl) DecrementAvailability(ctx context.Context, tx pgx.Tx, experienceID int, timeLabel string, quantity int) error {
	query := `
		UPDATE time_slots
		SET available = available - $1
		WHERE experience_id = $2 AND time_label = $3 AND available >= $1
	`

	result, err := tx.Exec(ctx, query, quantity, experienceID, timeLabel)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInsufficientAvailability
	}

	return nil
}

func (r *ExperienceRepositoryImpl) IncrementAvailability(ctx context.Context, tx pgx.Tx, experienceID int, timeLabel string, quantity int) error {
	query := `
		UPDATE time_slots
		SET available = LEAST(available + $1, total)
		WHERE experience_id = $2 AND time_label = $3
	`

	result, err := tx.Exec(ctx, query, quantity, experienceID, timeLabel)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrTimeSlotNotFound
	}

	return nil
}
