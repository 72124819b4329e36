package service

import (
	"fmt"

	"github.com/timedeposit/timedeposit/internal/model"
	"github.com/timedeposit/timedeposit/internal/money"
)

func welcomeEmailTemplate(name, goalsURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Create your first savings goal and we'll work out
how much to put aside each month:
%s

Best,
The %s Team`, name, goalsURL, appName)

	return subject, body
}

func goalAchievedEmailTemplate(name string, goal *model.Goal, goalURL, appName string) (string, string) {
	subject := fmt.Sprintf("You reached your goal: %s", goal.Name)
	body := fmt.Sprintf(`Hi %s,

Congratulations! You have saved %s of your %s target for "%s".

Deposits: %d
See the details: %s

You can turn these emails off in Settings.

Best,
The %s Team`,
		name,
		money.Format(goal.CurrentAmount),
		money.Format(goal.TargetAmount),
		goal.Name,
		goal.TransactionCount,
		goalURL,
		appName,
	)

	return subject, body
}

func accountDeletedEmailTemplate(name, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Hi %s,

Your account and all of your savings goals have been permanently deleted.

Thanks for saving with us.

Best,
The %s Team`, name, appName)

	return subject, body
}
