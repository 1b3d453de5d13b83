package workers

import (
	"context"
	"log"
	"time"

	"github.com/lumoapps/habitpulse-engine/internal/core/analytics"
	"github.com/lumoapps/habitpulse-engine/internal/core/domain"
)

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type CompletionRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitCompletion, error)
}

type StreakJob struct {
	HabitID string
}

// StreakWorker recomputes the denormalized streak columns in the background
// whenever a completion changes. Widget exporters read the columns directly;
// the analytics endpoints never do.
type StreakWorker struct {
	habitRepo      HabitRepository
	completionRepo CompletionRepository
	jobs           chan StreakJob
}

func NewStreakWorker(hRepo HabitRepository, cRepo CompletionRepository) *StreakWorker {
	return &StreakWorker{
		habitRepo:      hRepo,
		completionRepo: cRepo,
		jobs:           make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for habit %s", habitID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching habit %s: %v", job.HabitID, err)
		return
	}

	completions, err := w.completionRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Printf("Worker Error fetching completions for %s: %v", job.HabitID, err)
		return
	}

	habit.Completions = completions
	stats := analytics.Calculate(habit, time.Now())

	if habit.CurrentStreak != stats.CurrentStreak || habit.LongestStreak != stats.LongestStreak {
		if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, stats.CurrentStreak, stats.LongestStreak); err != nil {
			log.Printf("Worker Failed to update streak for %s: %v", job.HabitID, err)
		} else {
			log.Printf("Streak updated for %s: Current=%d, Longest=%d", habit.Name, stats.CurrentStreak, stats.LongestStreak)
		}
	}
}
