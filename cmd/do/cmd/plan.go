package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/timedeposit/timedeposit/internal/money"
	"github.com/timedeposit/timedeposit/internal/planner"
)

// PlanCmd prints the schedule the goal calculator would derive.
func PlanCmd() *cobra.Command {
	var in planner.Input
	var lastFocused string

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Reconcile a monthly saving and a duration for a target",
		Example: "  do plan --target 150000 --months 15\n" +
			"  do plan --target 100000 --saved 20000 --monthly 7000",
		RunE: func(cmd *cobra.Command, args []string) error {
			in.LastFocused = planner.Field(lastFocused)
			plan, err := planner.Reconcile(in, time.Now())
			if err != nil {
				return err
			}
			if !plan.Ready {
				return fmt.Errorf("target must be positive")
			}

			out := cmd.OutOrStdout()
			if plan.Achieved {
				fmt.Fprintln(out, "Target already reached.")
				return nil
			}
			fmt.Fprintf(out, "Monthly:   %s\n", money.Format(plan.MonthlyAmount))
			fmt.Fprintf(out, "Months:    %d\n", plan.TargetMonths)
			fmt.Fprintf(out, "Completes: %s\n", plan.TargetDate.Format("2006-01-02"))
			return nil
		},
	}

	planCmd.Flags().Int64Var(&in.TargetAmount, "target", 0, "target amount")
	planCmd.Flags().Int64Var(&in.AccumulatedAmount, "saved", 0, "amount already saved")
	planCmd.Flags().Int64Var(&in.MonthlyAmount, "monthly", 0, "monthly saving")
	planCmd.Flags().IntVar(&in.TargetMonths, "months", 0, "months to target")
	planCmd.Flags().StringVar(&lastFocused, "prefer", "", `field that wins when both are set: "monthly_amount" or "target_months"`)
	_ = planCmd.MarkFlagRequired("target")

	return planCmd
}
