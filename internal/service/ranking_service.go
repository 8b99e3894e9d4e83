package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"test_portal_backend/internal/model"
	"test_portal_backend/internal/repository"
	"test_portal_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"test_portal_backend/pkg/logger"
)

const rankingCacheTTL = 30 * time.Second

// RankingEntry is one leaderboard row, derived from a first attempt.
type RankingEntry struct {
	ID               uint   `json:"id"`
	Rank             int    `json:"rank"`
	UserID           uint   `json:"userId"`
	UserName         string `json:"userName"`
	Marks            int    `json:"marks"`
	TimeTaken        int    `json:"timeTaken"`
	CorrectCount     int    `json:"correctCount"`
	IncorrectCount   int    `json:"incorrectCount"`
	UnattemptedCount int    `json:"unattemptedCount"`
	TestTitle        string `json:"testTitle"`
}

// RankingService computes leaderboards on read from the set of first
// attempts, so ranks are always consistent with the stored attempts. A short
// Redis cache fronts the computation; every first-attempt write deletes the
// key, which keeps read-after-write consistency for the submitting user.
// Without Redis the service computes directly.
type RankingService struct {
	Attempts *repository.AttemptRepository
	Tests    *repository.TestRepository
	Redis    *redis.Client
}

func NewRankingService(attempts *repository.AttemptRepository, tests *repository.TestRepository, rdb *redis.Client) *RankingService {
	return &RankingService{Attempts: attempts, Tests: tests, Redis: rdb}
}

func rankingCacheKey(testID uint) string {
	return fmt.Sprintf("rankings:test:%d", testID)
}

func (s *RankingService) Rankings(testID uint) ([]RankingEntry, error) {
	if cached, ok := s.fromCache(testID); ok {
		return cached, nil
	}

	test, err := s.Tests.FindByID(testID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	attempts, err := s.Attempts.ListFirstByTest(testID)
	if err != nil {
		return nil, err
	}

	entries := rankAttempts(test.Title, attempts)
	s.toCache(testID, entries)
	return entries, nil
}

// Invalidate drops the cached leaderboard after a first-attempt write.
func (s *RankingService) Invalidate(testID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(context.Background(), rankingCacheKey(testID)).Err(); err != nil {
		logger.Log.Warn("ranking cache invalidation failed",
			zap.Uint("testId", testID), zap.Error(err))
	}
}

// rankAttempts assigns dense 1-based ranks to attempts already ordered by
// marks desc, timeTaken asc, createdAt asc, id asc. Rows with equal marks
// and timeTaken share a rank.
func rankAttempts(testTitle string, attempts []model.Attempt) []RankingEntry {
	entries := make([]RankingEntry, 0, len(attempts))
	rank := 0
	for i, a := range attempts {
		if i == 0 || a.Marks != attempts[i-1].Marks || a.TimeTaken != attempts[i-1].TimeTaken {
			rank++
		}

		userName := ""
		if a.User != nil {
			userName = a.User.Name
		}

		entries = append(entries, RankingEntry{
			ID:               a.ID,
			Rank:             rank,
			UserID:           a.UserID,
			UserName:         userName,
			Marks:            a.Marks,
			TimeTaken:        a.TimeTaken,
			CorrectCount:     a.CorrectCount,
			IncorrectCount:   a.IncorrectCount,
			UnattemptedCount: a.UnattemptedCount,
			TestTitle:        testTitle,
		})
	}
	return entries
}

func (s *RankingService) fromCache(testID uint) ([]RankingEntry, bool) {
	if s.Redis == nil {
		return nil, false
	}
	raw, err := s.Redis.Get(context.Background(), rankingCacheKey(testID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("ranking cache read failed", zap.Uint("testId", testID), zap.Error(err))
		}
		return nil, false
	}
	var entries []RankingEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *RankingService) toCache(testID uint, entries []RankingEntry) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.Redis.Set(context.Background(), rankingCacheKey(testID), raw, rankingCacheTTL).Err(); err != nil {
		logger.Log.Warn("ranking cache write failed", zap.Uint("testId", testID), zap.Error(err))
	}
}
