package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/observability"
)

var (
	statusJSON bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show completion progress of the working CV",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print progress as JSON")
	rootCmd.AddCommand(statusCmd)
}

type sectionStatus struct {
	ID       cv.Section `json:"id"`
	Title    string     `json:"title"`
	Complete bool       `json:"complete"`
}

type statusOutput struct {
	ID       string          `json:"id"`
	Progress int             `json:"progress"`
	Sections []sectionStatus `json:"sections"`
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	doc := sess.Store().Snapshot()

	if statusJSON {
		out := statusOutput{ID: doc.ID, Progress: cv.Progress(doc)}
		for _, s := range cv.ResolveSectionOrder(doc.Customization.SectionOrder) {
			out.Sections = append(out.Sections, sectionStatus{ID: s, Title: s.Title(), Complete: cv.SectionComplete(doc, s)})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	printer.PrintStatus(doc)

	if cfg.Verbose {
		printer.PrintEntries("work experience", engagementLabels(doc.WorkExperience))
		printer.PrintEntries("internships", engagementLabels(doc.Internships))
		printer.PrintEntries("projects", projectLabels(doc.Projects))
	}
	return nil
}

func engagementLabels(entries []cv.Engagement) []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = fmt.Sprintf("%s at %s", e.JobTitle, e.Company)
	}
	return labels
}

func projectLabels(projects []cv.Project) []string {
	labels := make([]string, len(projects))
	for i, p := range projects {
		labels[i] = p.Name
	}
	return labels
}
