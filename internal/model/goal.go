package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	FitnessLevelBeginner     = "beginner"
	FitnessLevelIntermediate = "intermediate"
	FitnessLevelAdvanced     = "advanced"
)

type Goal struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	GoalText        string    `db:"goal_text"`
	WhyItMatters    string    `db:"why_it_matters"`
	BiggestObstacle string    `db:"biggest_obstacle"`
	StruggleTime    string    `db:"struggle_time"`
	IsActive        bool      `db:"is_active"`
	CreatedAt       time.Time `db:"created_at"`

	// Running specialization (all optional)
	FitnessLevel       *string    `db:"fitness_level"`
	WeeklyFrequency    *int       `db:"weekly_frequency"`
	TargetRaceDistance *float64   `db:"target_race_distance"`
	TargetRaceDate     *time.Time `db:"target_race_date"`
	ObstacleCategories StringList `db:"obstacle_categories"`
}

// StringList stores a list of short strings as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}
