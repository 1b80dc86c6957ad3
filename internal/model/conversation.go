package model

import (
	"time"
)

type ConversationType string

const (
	ConversationPreRun     ConversationType = "pre_run"
	ConversationPostRun    ConversationType = "post_run"
	ConversationPlanning   ConversationType = "planning"
	ConversationMotivation ConversationType = "motivation"
	ConversationGeneral    ConversationType = "general"
)

// ConversationSession is one voice call with the coach. At most one session
// per user is open (nil EndTime) at a time.
type ConversationSession struct {
	ID               string           `db:"id"`
	UserID           string           `db:"user_id"`
	StartTime        time.Time        `db:"start_time"`
	EndTime          *time.Time       `db:"end_time"`
	ConversationType ConversationType `db:"conversation_type"`
	RelatedRunID     *string          `db:"related_run_id"`
	Transcript       *string          `db:"transcript"`
	Sentiment        *string          `db:"sentiment"`
	KeyTopics        StringList       `db:"key_topics"`
	TasksCreated     int              `db:"tasks_created"`
}

func (s *ConversationSession) IsOpen() bool {
	return s.EndTime == nil
}
