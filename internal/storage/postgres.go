package storage

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SysAdminDoc/PillSleepTracker/internal"
)

// PostgresStore persists the same document snapshots as the file backend,
// spread over relational tables. Saves replace the whole snapshot inside one
// transaction; the in-memory aggregate stays the source of truth between
// saves, matching the best-effort persistence contract.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStore(dsn string, logger internal.Logger) (*PostgresStore, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	s := &PostgresStore{pool: pool, logger: logger}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) migrate(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS medications (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	dosage TEXT NOT NULL DEFAULT '',
	frequency TEXT NOT NULL DEFAULT '',
	time_of_day TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	color TEXT NOT NULL DEFAULT '',
	supply INT,
	supply_warn INT NOT NULL DEFAULT 7,
	active BOOL NOT NULL DEFAULT TRUE,
	created TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS med_log (
	ord INT NOT NULL,
	med_id TEXT NOT NULL,
	med_name TEXT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	action TEXT NOT NULL,
	supply_debited BOOL NOT NULL DEFAULT FALSE
);
CREATE TABLE IF NOT EXISTS sleep_log (
	date TEXT PRIMARY KEY,
	bedtime TEXT NOT NULL,
	waketime TEXT NOT NULL,
	duration_min INT NOT NULL,
	quality INT NOT NULL,
	factors TEXT[] NOT NULL DEFAULT '{}',
	notes TEXT NOT NULL DEFAULT '',
	score INT NOT NULL,
	logged_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS settings (
	id INT PRIMARY KEY CHECK (id = 1),
	doc JSONB NOT NULL
);`)
	return err
}

func (p *PostgresStore) LoadData(ctx context.Context) (*internal.TrackerData, error) {
	data := internal.NewTrackerData()

	rows, err := p.pool.Query(ctx, `SELECT id, name, dosage, frequency, time_of_day, notes, color, supply, supply_warn, active, created FROM medications ORDER BY created ASC`)
	if err != nil {
		p.logger.Warnf("storage: falling back to empty tracker data: %v", err)
		return internal.NewTrackerData(), err
	}
	for rows.Next() {
		var m internal.Medication
		if err := rows.Scan(&m.ID, &m.Name, &m.Dosage, &m.Frequency, &m.TimeOfDay, &m.Notes, &m.Color, &m.Supply, &m.SupplyWarn, &m.Active, &m.Created); err != nil {
			rows.Close()
			return internal.NewTrackerData(), err
		}
		data.Medications = append(data.Medications, &m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return internal.NewTrackerData(), err
	}

	rows, err = p.pool.Query(ctx, `SELECT med_id, med_name, date, time, action, supply_debited FROM med_log ORDER BY ord ASC`)
	if err != nil {
		return internal.NewTrackerData(), err
	}
	for rows.Next() {
		var e internal.DoseEntry
		if err := rows.Scan(&e.MedID, &e.MedName, &e.Date, &e.Time, &e.Action, &e.SupplyDebited); err != nil {
			rows.Close()
			return internal.NewTrackerData(), err
		}
		data.MedLog = append(data.MedLog, &e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return internal.NewTrackerData(), err
	}

	rows, err = p.pool.Query(ctx, `SELECT date, bedtime, waketime, duration_min, quality, factors, notes, score, logged_at FROM sleep_log ORDER BY date ASC`)
	if err != nil {
		return internal.NewTrackerData(), err
	}
	for rows.Next() {
		var e internal.SleepEntry
		if err := rows.Scan(&e.Date, &e.Bedtime, &e.Waketime, &e.DurationMin, &e.Quality, &e.Factors, &e.Notes, &e.Score, &e.LoggedAt); err != nil {
			rows.Close()
			return internal.NewTrackerData(), err
		}
		data.SleepLog = append(data.SleepLog, &e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return internal.NewTrackerData(), err
	}

	return data, nil
}

func (p *PostgresStore) SaveData(ctx context.Context, data *internal.TrackerData) error {
	tx, err := p.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		p.logger.Errorf("storage: begin save transaction: %v", err)
		return err
	}
	defer tx.Rollback(ctx)

	for _, table := range []string{"medications", "med_log", "sleep_log"} {
		if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}

	for _, m := range data.Medications {
		if _, err := tx.Exec(ctx,
			`INSERT INTO medications (id, name, dosage, frequency, time_of_day, notes, color, supply, supply_warn, active, created) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			m.ID, m.Name, m.Dosage, m.Frequency, m.TimeOfDay, m.Notes, m.Color, m.Supply, m.SupplyWarn, m.Active, m.Created); err != nil {
			return err
		}
	}
	for i, e := range data.MedLog {
		if _, err := tx.Exec(ctx,
			`INSERT INTO med_log (ord, med_id, med_name, date, time, action, supply_debited) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			i, e.MedID, e.MedName, e.Date, e.Time, e.Action, e.SupplyDebited); err != nil {
			return err
		}
	}
	for _, e := range data.SleepLog {
		factors := e.Factors
		if factors == nil {
			factors = []string{}
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO sleep_log (date, bedtime, waketime, duration_min, quality, factors, notes, score, logged_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			e.Date, e.Bedtime, e.Waketime, e.DurationMin, e.Quality, factors, e.Notes, e.Score, e.LoggedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (p *PostgresStore) LoadSettings(ctx context.Context) (*internal.Settings, error) {
	settings := internal.DefaultSettings()
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM settings WHERE id = 1`).Scan(&doc)
	if err != nil {
		if err == pgx.ErrNoRows {
			return settings, nil
		}
		p.logger.Warnf("storage: falling back to default settings: %v", err)
		return settings, err
	}
	if err := json.Unmarshal(doc, settings); err != nil {
		p.logger.Warnf("storage: falling back to default settings: %v", err)
		return internal.DefaultSettings(), err
	}
	settings.Normalize()
	return settings, nil
}

func (p *PostgresStore) SaveSettings(ctx context.Context, settings *internal.Settings) error {
	doc, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO settings (id, doc) VALUES (1, $1) ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`, doc)
	if err != nil {
		p.logger.Errorf("storage: save settings: %v", err)
	}
	return err
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

var _ DataStore = (*PostgresStore)(nil)
