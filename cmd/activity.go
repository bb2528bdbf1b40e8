package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/auto-site/internal/audit"
)

var activityCmd = &cobra.Command{
	Use:   "activity [project-id]",
	Short: "Show the activity trail of a project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, store, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		trail := audit.NewStore(database)

		if prune, _ := cmd.Flags().GetDuration("prune"); prune > 0 {
			n, err := trail.DeleteBefore(ctx, time.Now().Add(-prune))
			if err != nil {
				return err
			}
			fmt.Printf("%d entries removed\n", n)
			return nil
		}

		p, err := resolveProject(ctx, store, args)
		if err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		action, _ := cmd.Flags().GetString("action")

		entries, err := trail.Query(ctx, audit.QueryFilter{
			ProjectID: p.ID,
			Action:    audit.Action(action),
			Limit:     limit,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTION\tOUTCOME\tSUMMARY")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Local().Format("2006-01-02 15:04"), e.Action, e.Outcome, e.Summary)
		}
		return w.Flush()
	},
}

func init() {
	activityCmd.Flags().Int("limit", 20, "maximum number of entries")
	activityCmd.Flags().String("action", "", "only show this action, e.g. pages_multiplied")
	activityCmd.Flags().Duration("prune", 0, "delete entries of all projects older than this, e.g. 720h")
	rootCmd.AddCommand(activityCmd)
}
