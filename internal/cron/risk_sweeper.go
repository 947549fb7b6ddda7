// Package cron runs the periodic streak-risk sweep. The sweep walks
// every habit, flags live streaks with no check-in today, and logs the
// result so downstream notification tooling can act on it.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/z3st/habits-api/internal/logger"
	"github.com/z3st/habits-api/internal/repository"
	"github.com/z3st/habits-api/internal/service"
)

// RiskSweeper periodically evaluates streak risk across all users.
type RiskSweeper struct {
	habitRepo repository.HabitRepository
	insights  service.InsightsService
	cron      *cron.Cron
	schedule  string
}

// NewRiskSweeper creates a new risk sweeper. schedule is a cron
// expression (e.g. "@hourly").
func NewRiskSweeper(habitRepo repository.HabitRepository, insights service.InsightsService, schedule string) *RiskSweeper {
	return &RiskSweeper{
		habitRepo: habitRepo,
		insights:  insights,
		cron:      cron.New(),
		schedule:  schedule,
	}
}

// Start registers and starts the sweep job.
func (s *RiskSweeper) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweep)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	s.cron.Start()
	logger.Default().Info("risk sweeper started",
		logger.String("schedule", s.schedule),
	)

	return nil
}

// Stop stops the sweeper and waits for any running sweep to finish.
func (s *RiskSweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Default().Info("risk sweeper stopped")
}

func (s *RiskSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log := logger.Default()
	start := time.Now()

	habits, err := s.habitRepo.ListAll(ctx)
	if err != nil {
		log.Error("risk sweep failed to list habits", logger.Err(err))
		return
	}

	userIDs := make(map[string]struct{})
	for _, habit := range habits {
		userIDs[habit.UserID] = struct{}{}
	}

	atRiskUsers := 0
	for userID := range userIDs {
		report, err := s.insights.GetRiskReport(ctx, userID)
		if err != nil {
			log.Error("risk sweep failed for user",
				logger.String("user_id", userID),
				logger.Err(err),
			)
			continue
		}

		if report.IsAtRisk {
			atRiskUsers++
			fields := []logger.Field{
				logger.String("user_id", userID),
				logger.Int("risk_count", report.RiskCount),
			}
			if report.MostAtRiskHabit != nil {
				fields = append(fields,
					logger.String("habit_id", report.MostAtRiskHabit.HabitID),
					logger.Int("current_streak", report.MostAtRiskHabit.CurrentStreak),
				)
			}
			log.Warn("streak at risk", fields...)
		}
	}

	log.Info("risk sweep completed",
		logger.Int("users", len(userIDs)),
		logger.Int("at_risk", atRiskUsers),
		logger.Duration("elapsed", time.Since(start)),
	)
}
