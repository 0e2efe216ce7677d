package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/client"
	"github.com/jonathan/cv-builder/internal/cv"
	"github.com/jonathan/cv-builder/internal/session"
)

var (
	pushUserID   string
	pushTemplate string
	pullUserID   string
	pullList     bool
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the working CV to the server",
	Long: `Saves the working CV on the server configured by API_BASE_URL. The first push creates a remote copy;
later pushes update it. The remote id is remembered next to the snapshot.`,
	RunE: runPush,
}

var pullCmd = &cobra.Command{
	Use:   "pull [CV_ID]",
	Short: "Replace the working CV with a copy from the server",
	Long:  `Downloads CV_ID (default: the last pushed CV) into the working copy. With --list, shows your saved CVs instead.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPull,
}

func init() {
	pushCmd.Flags().StringVar(&pushUserID, "user-id", "", "Owner of the remote copy (default: this installation's client id)")
	pushCmd.Flags().StringVar(&pushTemplate, "template", "", "Template to store with the CV (default: the CV's own template)")
	pullCmd.Flags().StringVar(&pullUserID, "user-id", "", "User whose CVs --list shows (default: this installation's client id)")
	pullCmd.Flags().BoolVar(&pullList, "list", false, "List saved CVs instead of pulling one")
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}

func newAPIClient(sess *session.Session) *client.Client {
	return client.New(cfg.APIBaseURL, client.WithClientID(sess.ClientID()))
}

// remoteError turns API failures into the message shown to the user.
func remoteError(action string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		log.Debug().Err(err).Msg(action + " failed")
		return fmt.Errorf("%s failed: %s", action, apiErr.UserMessage())
	}
	return fmt.Errorf("%s failed: %w", action, err)
}

func runPush(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	doc := sess.Store().Snapshot()
	api := newAPIClient(sess)

	template := pushTemplate
	if template == "" {
		template = doc.Customization.Template
	}

	remoteID, err := sess.RemoteID()
	if err != nil {
		return err
	}

	if remoteID != "" {
		updated, err := api.Update(ctx, remoteID, template, doc)
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s at %s.\n", updated.CVID, updated.UpdatedAt.Format("2006-01-02 15:04"))
			return nil
		}
		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || !apiErr.NotFound() {
			return remoteError("push", err)
		}
		log.Info().Str("cv_id", remoteID).Msg("remote copy is gone, creating a new one")
	}

	userID := pushUserID
	if userID == "" {
		userID = sess.ClientID()
	}
	created, err := api.Create(ctx, userID, template, doc)
	if err != nil {
		return remoteError("push", err)
	}
	if err := sess.SetRemoteID(created.CVID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s.\n", created.CVID)
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	api := newAPIClient(sess)

	if pullList {
		userID := pullUserID
		if userID == "" {
			userID = sess.ClientID()
		}
		page, err := api.ListByUser(ctx, userID, 1, 0)
		if err != nil {
			return remoteError("list", err)
		}
		out := cmd.OutOrStdout()
		if len(page.CVs) == 0 {
			fmt.Fprintln(out, "No saved CVs.")
			return nil
		}
		for _, s := range page.CVs {
			fmt.Fprintf(out, "%s  %-24s  %-12s  %s\n", s.CVID, s.FullName, s.Template, s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		if page.TotalPages > 1 {
			fmt.Fprintf(out, "(%d of %d CVs shown)\n", len(page.CVs), page.TotalCVs)
		}
		return nil
	}

	cvID := ""
	if len(args) == 1 {
		cvID = args[0]
	} else if cvID, err = sess.RemoteID(); err != nil {
		return err
	}
	if cvID == "" {
		return fmt.Errorf("no CV id given and nothing has been pushed yet")
	}

	remote, err := api.Get(ctx, cvID)
	if err != nil {
		return remoteError("pull", err)
	}

	sess.Dispatch(cv.Load{Document: remote.CVData})
	if remote.Template != "" && remote.Template != remote.CVData.Customization.Template {
		sess.Dispatch(cv.UpdateCustomization{Patch: cv.CustomizationPatch{Template: &remote.Template}})
	}
	if err := sess.SetRemoteID(remote.CVID); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %s. Progress: %d%%\n", remote.CVID, sess.Store().Progress())
	return nil
}
