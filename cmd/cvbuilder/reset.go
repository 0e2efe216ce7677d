package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/cv"
)

var (
	resetPurge bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Start over with an empty CV",
	Long:  `Replaces the working CV with an empty one under a new id. With --purge the stored snapshot is deleted instead.`,
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetPurge, "purge", false, "Delete the stored snapshot instead of saving an empty CV")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	if resetPurge {
		if err := sess.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Stored CV deleted.")
		return nil
	}

	doc := sess.Dispatch(cv.Reset{})
	fmt.Fprintf(cmd.OutOrStdout(), "Started a new CV (%s).\n", doc.ID)
	return nil
}
