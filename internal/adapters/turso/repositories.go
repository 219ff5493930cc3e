package turso

import (
	"database/sql"

	"github.com/emiliopalmerini/focusd/internal/ports"
)

// Repositories holds all turso repository implementations as port interfaces.
type Repositories struct {
	Subjects     ports.SubjectRepository
	Minutes      ports.MinuteStatRepository
	RawEvents    ports.RawEventRepository
	Dailies      ports.DailyStatRepository
	Sessions     ports.FocusSessionRepository
	Streaks      ports.StreakRepository
	Achievements ports.AchievementRepository
}

// NewRepositories creates all turso repository implementations from a database connection.
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Subjects:     NewSubjectRepository(db),
		Minutes:      NewMinuteStatRepository(db),
		RawEvents:    NewRawEventRepository(db),
		Dailies:      NewDailyStatRepository(db),
		Sessions:     NewFocusSessionRepository(db),
		Streaks:      NewStreakRepository(db),
		Achievements: NewAchievementRepository(db),
	}
}
