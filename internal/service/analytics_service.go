package service

import (
	"math"
	"test_portal_backend/internal/repository"
)

// AnalyticsService aggregates per-test figures for administrators. The
// rankings table is taken from RankingService, so both views of a test are
// always derived from the same first-attempt set.
type AnalyticsService struct {
	Attempts *repository.AttemptRepository
	Tests    *repository.TestRepository
	Ranking  *RankingService
}

func NewAnalyticsService(attempts *repository.AttemptRepository, tests *repository.TestRepository, ranking *RankingService) *AnalyticsService {
	return &AnalyticsService{Attempts: attempts, Tests: tests, Ranking: ranking}
}

type TestAnalytics struct {
	TestTitle     string         `json:"testTitle"`
	TotalStudents int            `json:"totalStudents"`
	AverageMarks  float64        `json:"averageMarks"`
	TotalAttempts int64          `json:"totalAttempts"`
	Rankings      []RankingEntry `json:"rankings"`
}

func (s *AnalyticsService) TestAnalytics(testID uint) (*TestAnalytics, error) {
	test, err := s.Tests.FindByID(testID)
	if err != nil {
		return nil, translateNotFound(err)
	}

	rankings, err := s.Ranking.Rankings(testID)
	if err != nil {
		return nil, err
	}

	totalAttempts, err := s.Attempts.CountByTest(testID)
	if err != nil {
		return nil, err
	}

	analytics := &TestAnalytics{
		TestTitle:     test.Title,
		TotalStudents: len(rankings),
		TotalAttempts: totalAttempts,
		Rankings:      rankings,
	}

	if len(rankings) > 0 {
		sum := 0
		for _, entry := range rankings {
			sum += entry.Marks
		}
		avg := float64(sum) / float64(len(rankings))
		analytics.AverageMarks = math.Round(avg*100) / 100
	}

	return analytics, nil
}
