package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stridecoach/stride/internal/model"
	"github.com/stridecoach/stride/internal/repository"
)

var (
	ErrSessionAlreadyEnded = errors.New("conversation session already ended")
)

type ConversationService struct {
	userRepo  repository.UserRepository
	repo      repository.ConversationRepository
	idleLimit time.Duration // cap on the recorded duration of an auto-closed session
	now       func() time.Time
}

func NewConversationService(userRepo repository.UserRepository, repo repository.ConversationRepository, idleLimit time.Duration) *ConversationService {
	return &ConversationService{
		userRepo:  userRepo,
		repo:      repo,
		idleLimit: idleLimit,
		now:       time.Now,
	}
}

// Start opens a new session. A user has at most one open session; a stale
// open one (e.g. the voice layer crashed mid-call) is ended first.
func (s *ConversationService) Start(userID string, conversationType model.ConversationType, relatedRunID *string) (*model.ConversationSession, error) {
	if _, err := s.userRepo.ByID(userID); err != nil {
		return nil, err
	}

	if conversationType == "" {
		conversationType = model.ConversationGeneral
	}

	now := s.now()

	open, err := s.repo.Open(userID)
	if err != nil && !errors.Is(err, repository.ErrConversationNotFound) {
		return nil, err
	}
	if open != nil {
		// A crashed call can leave a session open for hours; cap the recorded
		// duration at the idle limit so it never looks like a marathon call.
		endAt := now
		if s.idleLimit > 0 {
			limit := open.StartTime.Add(s.idleLimit)
			if endAt.After(limit) {
				endAt = limit
			}
		}

		slog.Warn("closing stale conversation session", "session_id", open.ID, "started_at", open.StartTime)
		err = s.repo.End(open.ID, endAt, open.Transcript, open.Sentiment, open.KeyTopics, open.TasksCreated)
		if err != nil {
			return nil, fmt.Errorf("failed to close stale session %s: %w", open.ID, err)
		}
	}

	session := &model.ConversationSession{
		ID:               uuid.New().String(),
		UserID:           userID,
		StartTime:        now,
		ConversationType: conversationType,
		RelatedRunID:     relatedRunID,
	}

	err = s.repo.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to start conversation session: %w", err)
	}

	return session, nil
}

type EndSessionInput struct {
	Transcript   *string
	Sentiment    *string
	KeyTopics    []string
	TasksCreated int
}

// End closes the session with its summary fields. The stored end time is
// never before the start time.
func (s *ConversationService) End(sessionID string, input EndSessionInput) (*model.ConversationSession, error) {
	session, err := s.repo.ByID(sessionID)
	if err != nil {
		return nil, err
	}

	if !session.IsOpen() {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionAlreadyEnded)
	}

	endTime := s.now()
	if endTime.Before(session.StartTime) {
		endTime = session.StartTime
	}

	err = s.repo.End(sessionID, endTime, input.Transcript, input.Sentiment, input.KeyTopics, input.TasksCreated)
	if err != nil {
		return nil, fmt.Errorf("failed to end session %s: %w", sessionID, err)
	}

	return s.repo.ByID(sessionID)
}

// Open returns the user's open session, or nil if none.
func (s *ConversationService) Open(userID string) (*model.ConversationSession, error) {
	session, err := s.repo.Open(userID)
	if errors.Is(err, repository.ErrConversationNotFound) {
		return nil, nil
	}
	return session, err
}
