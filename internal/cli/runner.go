package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/idilsaglam/cardtodo/internal/config"
	"github.com/idilsaglam/cardtodo/internal/model"
	"github.com/idilsaglam/cardtodo/internal/ui"
)

// exactArgs reports a wrong argument count as a usage error.
func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

// withRuntime opens the runtime, runs fn and flushes. A failed final write
// turns into exit code 1.
func withRuntime(ctx context.Context, cfg config.Config, fn func(*runtime) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	runErr := fn(rt)
	if err := rt.close(); err != nil && runErr == nil {
		return fmt.Errorf("save: %w", err)
	}
	return runErr
}

// runInteractive runs the card screen. Write failures stay out of the
// user's way here; the log has them.
func runInteractive(ctx context.Context, cfg config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rt, err := open(ctx, cfg)
	if err != nil {
		return err
	}
	runErr := ui.Run(ctx, rt.app)
	if err := rt.close(); err != nil {
		rt.log.Warn("final save failed", zap.Error(err))
	}
	// A signal ends the screen like a quit; pending writes were flushed above.
	if runErr != nil && ctx.Err() != nil {
		rt.log.Info("interactive screen stopped", zap.Error(runErr))
		return nil
	}
	if runErr != nil {
		return fmt.Errorf("tui: %w", runErr)
	}
	return nil
}

func newAddCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <age>",
		Short: "Add a card (quote names with spaces)",
		Example: `  todo add "Sam" 30
  todo add "Ada Lovelace" 36`,
		Args: exactArgs(2, "todo add <name> <age>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *cfg, func(rt *runtime) error {
				return doAdd(cmd, rt, args[0], args[1])
			})
		},
	}
}

func newListCmd(cfg *config.Config) *cobra.Command {
	var group bool
	var output string
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List cards, newest first",
		Args:    exactArgs(0, "todo ls [--group] [-o text|json|yaml]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *cfg, func(rt *runtime) error {
				return doList(cmd, rt, group, output)
			})
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func newDoneCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id|index>",
		Short: "Toggle completion of a card",
		Args:  exactArgs(1, "todo done <id|index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *cfg, func(rt *runtime) error {
				return doToggle(cmd, rt, args[0])
			})
		},
	}
}

func newRemoveCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id|index>",
		Aliases: []string{"remove"},
		Short:   "Delete a card (unknown ids are ignored)",
		Args:    exactArgs(1, "todo rm <id|index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd.Context(), *cfg, func(rt *runtime) error {
				return doRemove(cmd, rt, args[0])
			})
		},
	}
}

// -------------- subcommand impls ----------------

func doAdd(cmd *cobra.Command, rt *runtime, name, age string) error {
	ok := rt.app.Add(name, age)
	msg := rt.app.Notice().Message()
	rt.app.Notice().Dismiss()
	if !ok {
		return usagef("%s", msg)
	}
	ui.Notice(cmd.OutOrStdout(), msg)
	return nil
}

func doList(cmd *cobra.Command, rt *runtime, group bool, output string) error {
	records := rt.app.Records()
	out := cmd.OutOrStdout()

	switch strings.ToLower(output) {
	case "", "text":
		ui.Panel(out, ui.ListingLines(records, group))
	case "json":
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("json: %w", err)
		}
		fmt.Fprintln(out, string(b))
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
	default:
		return usagef("ls: unknown output format %q (want text, json or yaml)", output)
	}
	return nil
}

func doToggle(cmd *cobra.Command, rt *runtime, ref string) error {
	rec, err := resolve(rt.app.Records(), ref)
	if err != nil {
		return err
	}
	rt.app.Toggle(rec.ID)
	state := "pending"
	if !rec.Completed {
		state = "done"
	}
	ui.OK(cmd.OutOrStdout(), fmt.Sprintf("%s marked %s", rec.Name, state))
	return nil
}

func doRemove(cmd *cobra.Command, rt *runtime, ref string) error {
	id := ref
	if rec, err := resolve(rt.app.Records(), ref); err == nil {
		id = rec.ID
	}
	rt.app.Remove(id)
	ui.Notice(cmd.OutOrStdout(), rt.app.Notice().Message())
	rt.app.Notice().Dismiss()
	return nil
}

var errNoMatch = errors.New("no matching todo")

// resolve finds a record by id, or by 1-based index in the current order.
// Ids win over indexes.
func resolve(records []model.Record, ref string) (model.Record, error) {
	for _, r := range records {
		if r.ID == ref {
			return r, nil
		}
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return model.Record{}, usagef("%v: %s (run `todo ls` to see ids)", errNoMatch, ref)
	}
	if n < 1 || n > len(records) {
		return model.Record{}, usagef("index out of range: have %d, got %d (run `todo ls` to see valid indexes)", len(records), n)
	}
	return records[n-1], nil
}
