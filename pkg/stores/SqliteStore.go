package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/4kphotoz/website/pkg/models"
	"github.com/goccy/go-json"
	"github.com/rfberaldo/sqlz"
)

// fixed width so ORDER BY on the text column is chronological
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

/*
SqliteStore keeps the settings document as a singleton row and signups as
one row each.
*/
type SqliteStore struct {
	db  *sqlz.DB
	now func() time.Time
}

type settingsRow struct {
	Document string `db:"document"`
}

type signupRow struct {
	ID             string `db:"id"`
	ParentName     string `db:"parent_name"`
	Email          string `db:"email"`
	Phone          string `db:"phone"`
	AthleteName    string `db:"athlete_name"`
	Sport          string `db:"sport"`
	GraduationYear string `db:"graduation_year"`
	SignupDate     string `db:"signup_date"`
	IsActive       bool   `db:"is_active"`
}

const signupColumns = `
   s.id
   , s.parent_name
   , s.email
   , s.phone
   , s.athlete_name
   , s.sport
   , s.graduation_year
   , s.signup_date
   , s.is_active
`

func NewSqliteStore(db *sqlz.DB) *SqliteStore {
	return &SqliteStore{
		db:  db,
		now: time.Now,
	}
}

func (s *SqliteStore) GetSettings(ctx context.Context) (models.AdminSettings, error) {
	var (
		err      error
		row      settingsRow
		settings models.AdminSettings
	)

	sql := `
SELECT
   document
FROM admin_settings
WHERE id=1
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.QueryRow(ctx, &row, sql); err != nil {
		if sqlz.IsNotFound(err) {
			return models.DefaultAdminSettings(), nil
		}

		return settings, fmt.Errorf("error querying for admin settings: %w", err)
	}

	if err = json.Unmarshal([]byte(row.Document), &settings); err != nil {
		return settings, fmt.Errorf("error decoding admin settings: %w", err)
	}

	settings.Normalize()
	return settings, nil
}

func (s *SqliteStore) SaveSettings(ctx context.Context, settings models.AdminSettings) error {
	b, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error encoding admin settings: %w", err)
	}

	sql := `
INSERT INTO admin_settings (
   id,
   document,
   updated_at
) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET
   document=excluded.document,
   updated_at=excluded.updated_at
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, string(b), s.now().UTC().Format(sqliteTimeLayout)); err != nil {
		return fmt.Errorf("error saving admin settings: %w", err)
	}

	return nil
}

func (s *SqliteStore) AddSignup(ctx context.Context, input models.AlertSignupInput) (models.AlertSignup, error) {
	signup := models.NewAlertSignup(input, s.now())

	sql := `
INSERT INTO alert_signups (
   id,
   parent_name,
   email,
   phone,
   athlete_name,
   sport,
   graduation_year,
   signup_date,
   is_active
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

	params := []any{
		signup.ID,
		signup.ParentName,
		signup.Email,
		signup.Phone,
		signup.AthleteName,
		signup.Sport,
		signup.GraduationYear,
		signup.SignupDate.Format(sqliteTimeLayout),
		signup.IsActive,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err := s.db.Exec(ctx, sql, params...); err != nil {
		return models.AlertSignup{}, fmt.Errorf("error inserting alert signup: %w", err)
	}

	return signup, nil
}

func (s *SqliteStore) ListActiveSignups(ctx context.Context) ([]models.AlertSignup, error) {
	return s.querySignups(ctx, "AND s.is_active=1")
}

func (s *SqliteStore) ListAllSignups(ctx context.Context) ([]models.AlertSignup, error) {
	return s.querySignups(ctx, "")
}

func (s *SqliteStore) SignupsBySport(ctx context.Context, sport string) ([]models.AlertSignup, error) {
	return s.querySignups(ctx, "AND s.is_active=1 AND s.sport=?", sport)
}

func (s *SqliteStore) SignupsByGraduationYear(ctx context.Context, year string) ([]models.AlertSignup, error) {
	return s.querySignups(ctx, "AND s.is_active=1 AND s.graduation_year=?", year)
}

func (s *SqliteStore) DeactivateSignup(ctx context.Context, id string) (bool, error) {
	sql := `
UPDATE alert_signups SET
   is_active=0
WHERE id=?
`

	return s.execAffectsRow(ctx, sql, id)
}

func (s *SqliteStore) DeleteSignup(ctx context.Context, id string) (bool, error) {
	sql := `
DELETE FROM alert_signups
WHERE id=?
`

	return s.execAffectsRow(ctx, sql, id)
}

func (s *SqliteStore) Close() error {
	return nil
}

func (s *SqliteStore) execAffectsRow(ctx context.Context, sql string, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, sql, id)
	if err != nil {
		return false, fmt.Errorf("error updating alert signup %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading affected rows for alert signup %s: %w", id, err)
	}

	return affected > 0, nil
}

func (s *SqliteStore) querySignups(ctx context.Context, where string, params ...any) ([]models.AlertSignup, error) {
	var (
		err  error
		rows []signupRow
	)

	sql := `
SELECT ` + signupColumns + `
FROM alert_signups AS s
WHERE 1=1
   ` + where + `
ORDER BY s.signup_date, s.id
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &rows, sql, params...); err != nil && !sqlz.IsNotFound(err) {
		return nil, fmt.Errorf("error querying for alert signups: %w", err)
	}

	result := make([]models.AlertSignup, 0, len(rows))

	for _, row := range rows {
		signup, err := row.toModel()
		if err != nil {
			return nil, err
		}

		result = append(result, signup)
	}

	return result, nil
}

func (r signupRow) toModel() (models.AlertSignup, error) {
	signupDate, err := time.Parse(sqliteTimeLayout, r.SignupDate)
	if err != nil {
		return models.AlertSignup{}, fmt.Errorf("error parsing signup date for %s: %w", r.ID, err)
	}

	return models.AlertSignup{
		ID:             r.ID,
		ParentName:     r.ParentName,
		Email:          r.Email,
		Phone:          r.Phone,
		AthleteName:    r.AthleteName,
		Sport:          r.Sport,
		GraduationYear: r.GraduationYear,
		SignupDate:     signupDate,
		IsActive:       r.IsActive,
	}, nil
}
