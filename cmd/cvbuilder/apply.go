package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/cv-builder/internal/cv"
)

var applyCmd = &cobra.Command{
	Use:   "apply FILE",
	Short: "Apply edit commands to the working CV",
	Long: `Reads one command object, or a JSON array of them, from FILE ("-" for stdin) and applies them
in order to the working CV, for example:

  {"type": "UPDATE_SUMMARY", "payload": "Backend engineer"}

Unknown command types are skipped. The result is saved when the command finishes.`,
	Args: cobra.ExactArgs(1),
	RunE: runApply,
}

func init() {
	rootCmd.AddCommand(applyCmd)
}

// readCommands decodes a single command or an array of commands.
func readCommands(data []byte) ([]cv.Command, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("no commands given")
	}

	raws := []json.RawMessage{trimmed}
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, fmt.Errorf("failed to parse command list: %w", err)
		}
	}

	cmds := make([]cv.Command, 0, len(raws))
	for i, raw := range raws {
		c, err := cv.DecodeCommand(raw)
		if err != nil {
			return nil, fmt.Errorf("command %d: %w", i+1, err)
		}
		cmds = append(cmds, c)
	}
	return cmds, nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func runApply(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	commands, err := readCommands(data)
	if err != nil {
		return err
	}

	ctx := context.Background()
	sess, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close(ctx)

	applied := 0
	for _, c := range commands {
		if _, unknown := c.(cv.Unknown); unknown {
			log.Warn().Str("type", c.CommandName()).Msg("skipping unknown command")
			continue
		}
		sess.Dispatch(c)
		applied++
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Applied %d of %d command(s). Progress: %d%%\n",
		applied, len(commands), sess.Store().Progress())
	return nil
}
