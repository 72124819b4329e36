package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/planner"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/validation"
)

var (
	ErrInvalidOrder  = errors.New("invalid goal order")
	ErrInvalidTarget = errors.New("target amount must be positive")
)

const (
	MoveUp   = "up"
	MoveDown = "down"
)

type GoalService struct {
	repo repository.GoalRepository
	now  func() time.Time
}

func NewGoalService(repo repository.GoalRepository) *GoalService {
	return &GoalService{
		repo: repo,
		now:  time.Now,
	}
}

// Plan runs the monthly amount / duration reconciliation for the live
// calculator in the goal forms.
func (s *GoalService) Plan(in planner.Input) (planner.Plan, error) {
	return planner.Reconcile(in, s.now())
}

func (s *GoalService) Create(ctx context.Context, userID string, in validation.GoalInput, lastFocused planner.Field) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	plan, err := s.Plan(planner.Input{
		TargetAmount:      in.TargetAmount,
		AccumulatedAmount: in.InitialAmount,
		MonthlyAmount:     in.MonthlyAmount,
		TargetMonths:      in.TargetMonths,
		LastFocused:       lastFocused,
	})
	if err != nil {
		return nil, err
	}

	sortOrder, err := s.repo.NextSortOrder(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get next sort order: %w", err)
	}

	now := s.now()
	targetDate := plan.TargetDate
	goal := &model.Goal{
		ID:            uuid.New().String(),
		UserID:        userID,
		Name:          in.Name,
		Description:   in.Description,
		TargetAmount:  in.TargetAmount,
		InitialAmount: in.InitialAmount,
		CurrentAmount: in.InitialAmount,
		MonthlyAmount: plan.MonthlyAmount,
		TargetDate:    &targetDate,
		TargetType:    model.GoalTargetTypeDuration,
		SortOrder:     sortOrder,
		IsCompleted:   in.InitialAmount >= in.TargetAmount,
		Progress:      model.CalculateProgress(in.InitialAmount, in.TargetAmount),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "user_id", userID, "goal_id", goal.ID, "target", goal.TargetAmount, "monthly", goal.MonthlyAmount)
	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(ctx, userID, goalID)
}

func (s *GoalService) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.repo.Goals(ctx, userID)
}

func (s *GoalService) Summary(ctx context.Context, userID string) (model.GoalSummary, error) {
	return s.repo.Summary(ctx, userID)
}

// Update applies an edit form. The schedule is reconciled against the amount
// saved so far, not the initial amount.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, in validation.GoalInput, lastFocused planner.Field) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	// Verify ownership
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	plan, err := s.Plan(planner.Input{
		TargetAmount:      in.TargetAmount,
		AccumulatedAmount: goal.CurrentAmount,
		MonthlyAmount:     in.MonthlyAmount,
		TargetMonths:      in.TargetMonths,
		LastFocused:       lastFocused,
	})
	if err != nil {
		return nil, err
	}

	targetDate := plan.TargetDate
	targetType := model.GoalTargetTypeDuration
	completed := completionAfterTarget(goal, in.TargetAmount)
	progress := model.CalculateProgress(goal.CurrentAmount, in.TargetAmount)

	err = s.repo.Update(ctx, userID, goalID, model.GoalPatch{
		Name:          &in.Name,
		Description:   &in.Description,
		TargetAmount:  &in.TargetAmount,
		MonthlyAmount: &plan.MonthlyAmount,
		TargetDate:    &targetDate,
		TargetType:    &targetType,
		IsCompleted:   &completed,
		Progress:      &progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return s.repo.ByID(ctx, userID, goalID)
}

// Patch applies an arbitrary partial update. Progress follows a changed
// target amount, and so does completion unless the patch sets it.
func (s *GoalService) Patch(ctx context.Context, userID, goalID string, patch model.GoalPatch) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if patch.TargetAmount != nil {
		if *patch.TargetAmount <= 0 {
			return nil, ErrInvalidTarget
		}
		progress := model.CalculateProgress(goal.CurrentAmount, *patch.TargetAmount)
		patch.Progress = &progress
		if patch.IsCompleted == nil {
			completed := completionAfterTarget(goal, *patch.TargetAmount)
			patch.IsCompleted = &completed
		}
	}

	err = s.repo.Update(ctx, userID, goalID, patch)
	if err != nil {
		return nil, err
	}

	return s.repo.ByID(ctx, userID, goalID)
}

// completionAfterTarget keeps the stored completion flag unless moving the
// target from its current value to target crosses the saved amount.
func completionAfterTarget(goal *model.Goal, target int64) bool {
	reached := goal.CurrentAmount >= goal.TargetAmount
	reachedNow := goal.CurrentAmount >= target
	if reached == reachedNow {
		return goal.IsCompleted
	}
	return reachedNow
}

func (s *GoalService) SetCompleted(ctx context.Context, userID, goalID string, completed bool) (*model.Goal, error) {
	return s.Patch(ctx, userID, goalID, model.GoalPatch{IsCompleted: &completed})
}

// Delete soft deletes a goal. Other goals keep their sort order.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	err := s.repo.SoftDelete(ctx, userID, goalID)
	if err != nil {
		return err
	}

	slog.Info("goal deleted", "user_id", userID, "goal_id", goalID)
	return nil
}

// Reorder stores a new display order. goalIDs must list every active goal of
// the user exactly once.
func (s *GoalService) Reorder(ctx context.Context, userID string, goalIDs []string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	goals, err := s.repo.Goals(ctx, userID)
	if err != nil {
		return err
	}

	if len(goalIDs) != len(goals) {
		return ErrInvalidOrder
	}

	known := make(map[string]bool, len(goals))
	for _, g := range goals {
		known[g.ID] = true
	}

	seen := make(map[string]bool, len(goalIDs))
	for _, id := range goalIDs {
		if !known[id] || seen[id] {
			return ErrInvalidOrder
		}
		seen[id] = true
	}

	return s.repo.Reorder(ctx, userID, goalIDs)
}

// Move swaps a goal with its neighbour in the display order.
func (s *GoalService) Move(ctx context.Context, userID, goalID, direction string) error {
	if userID == "" {
		return ErrUnauthenticated
	}

	goals, err := s.repo.Goals(ctx, userID)
	if err != nil {
		return err
	}

	ids := make([]string, len(goals))
	index := -1
	for i, g := range goals {
		ids[i] = g.ID
		if g.ID == goalID {
			index = i
		}
	}

	if index == -1 {
		return repository.ErrGoalNotFound
	}

	target := index
	switch direction {
	case MoveUp:
		target--
	case MoveDown:
		target++
	default:
		return ErrInvalidOrder
	}

	if target < 0 || target >= len(ids) {
		return nil
	}

	ids[index], ids[target] = ids[target], ids[index]
	return s.repo.Reorder(ctx, userID, ids)
}
