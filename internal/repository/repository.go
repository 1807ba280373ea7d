package repository

import (
	"fmt"

	"github.com/fmedinajr1-ui/parlaysimulator-sub005/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	PropLine    PropLineRepository
	GameLog     GameLogRepository
	DefenseRank DefenseRankRepository
	Assessment  AssessmentRepository
	Wager       WagerRepository
	Calibration CalibrationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		PropLine:    NewPostgresPropLineRepository(db),
		GameLog:     NewPostgresGameLogRepository(db),
		DefenseRank: NewPostgresDefenseRankRepository(db),
		Assessment:  NewPostgresAssessmentRepository(db),
		Wager:       NewPostgresWagerRepository(db),
		Calibration: NewPostgresCalibrationRepository(db),
	}, nil
}
