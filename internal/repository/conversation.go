package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stridecoach/stride/internal/model"
)

var (
	ErrConversationNotFound = errors.New("conversation session not found")
)

type ConversationRepository interface {
	Create(session *model.ConversationSession) error
	ByID(sessionID string) (*model.ConversationSession, error)
	Open(userID string) (*model.ConversationSession, error)
	End(sessionID string, endTime time.Time, transcript, sentiment *string, keyTopics model.StringList, tasksCreated int) error
}

type conversationRepository struct {
	db *sqlx.DB
}

func NewConversationRepository(db *sqlx.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Create(session *model.ConversationSession) error {
	query := `INSERT INTO conversation_sessions (id, user_id, start_time, end_time, conversation_type,
	              related_run_id, transcript, sentiment, key_topics, tasks_created)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.Exec(query,
		session.ID,
		session.UserID,
		session.StartTime,
		session.EndTime,
		session.ConversationType,
		session.RelatedRunID,
		session.Transcript,
		session.Sentiment,
		session.KeyTopics,
		session.TasksCreated,
	)

	return err
}

func (r *conversationRepository) ByID(sessionID string) (*model.ConversationSession, error) {
	session := &model.ConversationSession{}
	query := `SELECT * FROM conversation_sessions WHERE id = $1`

	err := r.db.Get(session, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}

	return session, err
}

// Open returns the user's open session, if any. The engine keeps at most one.
func (r *conversationRepository) Open(userID string) (*model.ConversationSession, error) {
	session := &model.ConversationSession{}
	query := `SELECT * FROM conversation_sessions WHERE user_id = $1 AND end_time IS NULL
	          ORDER BY start_time DESC LIMIT 1`

	err := r.db.Get(session, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrConversationNotFound
	}

	return session, err
}

func (r *conversationRepository) End(sessionID string, endTime time.Time, transcript, sentiment *string, keyTopics model.StringList, tasksCreated int) error {
	query := `UPDATE conversation_sessions
	          SET end_time = $1, transcript = $2, sentiment = $3, key_topics = $4, tasks_created = $5
	          WHERE id = $6`

	result, err := r.db.Exec(query, endTime, transcript, sentiment, keyTopics, tasksCreated, sessionID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrConversationNotFound
	}

	return nil
}
