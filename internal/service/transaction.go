package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/repository"
	"github.com/timedeposit/timedeposit/internal/validation"
)

// GoalNotifier is told when a deposit pushes a goal over its target.
type GoalNotifier interface {
	GoalAchieved(ctx context.Context, userID string, goal *model.Goal)
}

type TransactionService struct {
	goalRepo        repository.GoalRepository
	transactionRepo repository.TransactionRepository
	notifier        GoalNotifier
	now             func() time.Time
}

func NewTransactionService(
	goalRepo repository.GoalRepository,
	transactionRepo repository.TransactionRepository,
	notifier GoalNotifier,
) *TransactionService {
	return &TransactionService{
		goalRepo:        goalRepo,
		transactionRepo: transactionRepo,
		notifier:        notifier,
		now:             time.Now,
	}
}

// Record adds a deposit to a goal and returns the updated goal.
func (s *TransactionService) Record(ctx context.Context, userID, goalID string, in validation.TransactionInput) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	before, err := s.goalRepo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		ID:          uuid.New().String(),
		GoalID:      goalID,
		UserID:      userID,
		Amount:      in.Amount,
		Type:        in.Type,
		Description: in.Description,
		ExecutedAt:  s.now(),
	}

	goal, err := s.transactionRepo.Record(ctx, txn)
	if err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	slog.Info("deposit recorded", "user_id", userID, "goal_id", goalID, "amount", in.Amount, "type", in.Type)

	if goal.IsCompleted && !before.IsCompleted && s.notifier != nil {
		s.notifier.GoalAchieved(ctx, userID, goal)
	}

	return goal, nil
}

func (s *TransactionService) Transactions(ctx context.Context, userID, goalID string) ([]*model.Transaction, error) {
	return s.transactionRepo.Transactions(ctx, userID, goalID)
}

func (s *TransactionService) Remove(ctx context.Context, userID, goalID, transactionID string) (*model.Goal, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}

	goal, err := s.transactionRepo.Remove(ctx, userID, goalID, transactionID)
	if err != nil {
		return nil, err
	}

	slog.Info("deposit removed", "user_id", userID, "goal_id", goalID, "transaction_id", transactionID)
	return goal, nil
}

// emailGoalNotifier mails the goal owner when notifications are enabled.
type emailGoalNotifier struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	email       *EmailService
}

func NewEmailGoalNotifier(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, email *EmailService) GoalNotifier {
	return &emailGoalNotifier{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		email:       email,
	}
}

func (n *emailGoalNotifier) GoalAchieved(ctx context.Context, userID string, goal *model.Goal) {
	profile, err := n.profileRepo.ByUserID(ctx, userID)
	if err != nil {
		slog.Warn("failed to get profile for goal notification", "user_id", userID, "error", err)
		return
	}
	if !profile.NotificationsEnabled {
		return
	}

	user, err := n.userRepo.ByID(ctx, userID)
	if err != nil {
		slog.Warn("failed to get user for goal notification", "user_id", userID, "error", err)
		return
	}

	err = n.email.SendGoalAchievedEmail(ctx, user.Email, profile.Name, goal)
	if err != nil {
		slog.Warn("failed to send goal achieved email", "user_id", userID, "goal_id", goal.ID, "error", err)
	}
}
