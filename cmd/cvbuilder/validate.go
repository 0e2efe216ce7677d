package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/observability"
	"github.com/jonathan/cv-builder/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a CV JSON file",
	Long:  `Checks FILE against the CV JSON schema and the field rules (email format, date ranges, enums).`,
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validationMessages flattens schema and document validation errors.
func validationMessages(err error) []string {
	var (
		schemaErr *schemas.ValidationError
		docErr    *cv.ValidationError
	)
	switch {
	case errors.As(err, &schemaErr):
		msgs := make([]string, len(schemaErr.Errors))
		for i, fe := range schemaErr.Errors {
			msgs[i] = fe.Field + ": " + fe.Message
		}
		return msgs
	case errors.As(err, &docErr):
		return docErr.Messages()
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	doc, err := loadDocumentFile(args[0], time.Now())
	if err == nil {
		err = cv.Validate(doc)
	}

	msgs := validationMessages(err)
	if err != nil && msgs == nil {
		return err
	}

	printer := observability.NewPrinter(cmd.OutOrStdout())
	if len(msgs) > 0 {
		printer.PrintValidation(msgs)
		fmt.Fprintf(cmd.OutOrStdout(), "Validation failed: %s\n", args[0])
		return fmt.Errorf("%d validation problem(s)", len(msgs))
	}

	if cfg.Verbose {
		printer.PrintValidation(nil)
	}
	if cv.SummaryTooLong(doc) {
		fmt.Fprintf(cmd.OutOrStdout(), "Warning: summary is longer than %d characters.\n", cv.SummarySoftLimit)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Validation passed: %s\n", args[0])
	return nil
}
