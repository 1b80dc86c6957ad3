package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrSessionNotFound = errors.New("run session not found")
)

// SessionAggregates summarizes a goal's run history for the coaching context.
type SessionAggregates struct {
	TotalRuns         int      `db:"total_runs"`
	TotalDistanceKM   float64  `db:"total_distance_km"`
	AverageDifficulty *float64 `db:"average_difficulty"`
}

type SessionRepository interface {
	Create(session *model.RunSession) error
	CreateFulfilling(session *model.RunSession, run *model.ScheduledRun) error
	ByID(sessionID string) (*model.RunSession, error)
	Recent(goalID string, limit int) ([]*model.RunSession, error)
	Aggregates(goalID string) (*SessionAggregates, error)
	CountPainSince(goalID string, since time.Time) (int, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

const insertSession = `INSERT INTO run_sessions (id, goal_id, scheduled_run_id, conversation_session_id,
	completed_date, actual_distance_km, duration_min, difficulty_rating, pain_reported,
	pain_location, pain_description, energy_level, overall_feeling, notes, weather_conditions)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func sessionArgs(s *model.RunSession) []any {
	return []any{
		s.ID,
		s.GoalID,
		s.ScheduledRunID,
		s.ConversationSessionID,
		s.CompletedDate,
		s.ActualDistanceKM,
		s.DurationMin,
		s.DifficultyRating,
		s.PainReported,
		s.PainLocation,
		s.PainDescription,
		s.EnergyLevel,
		s.OverallFeeling,
		s.Notes,
		s.WeatherConditions,
	}
}

func (r *sessionRepository) Create(session *model.RunSession) error {
	_, err := r.db.Exec(insertSession, sessionArgs(session)...)
	return err
}

// CreateFulfilling records the session and transitions the fulfilled
// scheduled run to completed in one transaction.
func (r *sessionRepository) CreateFulfilling(session *model.RunSession, run *model.ScheduledRun) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(insertSession, sessionArgs(session)...)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`UPDATE scheduled_runs SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`,
		model.RunStatusCompleted, session.CompletedDate, run.ID, model.RunStatusScheduled)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRunNotFound
	}

	return tx.Commit()
}

func (r *sessionRepository) ByID(sessionID string) (*model.RunSession, error) {
	session := &model.RunSession{}
	query := `SELECT * FROM run_sessions WHERE id = $1`

	err := r.db.Get(session, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}

	return session, err
}

func (r *sessionRepository) Recent(goalID string, limit int) ([]*model.RunSession, error) {
	var sessions []*model.RunSession
	query := `SELECT * FROM run_sessions WHERE goal_id = $1
	          ORDER BY completed_date DESC LIMIT $2`

	err := r.db.Select(&sessions, query, goalID, limit)
	if err != nil {
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) Aggregates(goalID string) (*SessionAggregates, error) {
	agg := &SessionAggregates{}
	query := `SELECT COUNT(*) AS total_runs,
	              COALESCE(SUM(actual_distance_km), 0) AS total_distance_km,
	              AVG(difficulty_rating) AS average_difficulty
	          FROM run_sessions WHERE goal_id = $1`

	err := r.db.Get(agg, query, goalID)
	if err != nil {
		return nil, err
	}

	return agg, nil
}

func (r *sessionRepository) CountPainSince(goalID string, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM run_sessions
	          WHERE goal_id = $1 AND pain_reported = TRUE AND completed_date > $2`

	err := r.db.QueryRow(query, goalID, since).Scan(&count)
	return count, err
}
