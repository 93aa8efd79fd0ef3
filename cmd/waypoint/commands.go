package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/waypoint/internal/service"
)

func newPathsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "List learning paths with their progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(*flags, func(a *app) error {
				return writePaths(cmd.OutOrStdout(), a.tracker)
			})
		},
	}
}

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [path]",
		Short: "Show per-path statistics and overall progress",
		Long: `Show per-path statistics and overall progress.

With a path ID, show that path's levels instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pathID := ""
			if len(args) == 1 {
				pathID = args[0]
			}
			return withApp(*flags, func(a *app) error {
				return writeStats(cmd.OutOrStdout(), a.tracker, pathID)
			})
		},
	}
}

func newToggleCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip a topic's completion or a resource's viewed flag",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "topic <path> <level> <topic>",
			Short: "Flip a topic between completed and not completed",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, *flags, func(t *service.Tracker) (string, error) {
					if err := t.ToggleTopic(args[0], args[1], args[2]); err != nil {
						return "", err
					}
					return describe("Topic", strings.Join(args, "/"),
						t.IsTopicCompleted(args[0], args[1], args[2]), "completed", "not completed"), nil
				})
			},
		},
		&cobra.Command{
			Use:   "resource <path> <level> <resource>",
			Short: "Flip a resource between viewed and not viewed",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mutate(cmd, *flags, func(t *service.Tracker) (string, error) {
					if err := t.ToggleResource(args[0], args[1], args[2]); err != nil {
						return "", err
					}
					return describe("Resource", strings.Join(args, "/"),
						t.IsResourceViewed(args[0], args[1], args[2]), "viewed", "not viewed"), nil
				})
			},
		},
	)
	return cmd
}

func newCompleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <path> <level>",
		Short: "Flip a level's completed mark",
		Long: `Flip a level's completed mark.

The mark is independent of the level's topics: completing every topic does
not complete the level, and completing the level does not tick its topics.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(cmd, *flags, func(t *service.Tracker) (string, error) {
				if err := t.CompleteLevel(args[0], args[1]); err != nil {
					return "", err
				}
				return describe("Level", strings.Join(args, "/"),
					t.IsLevelCompleted(args[0], args[1]), "complete", "incomplete"), nil
			})
		},
	}
}

func newFindCmd(flags *rootFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Search topics, resources and levels across every path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withApp(*flags, func(a *app) error {
				return writeResults(cmd.OutOrStdout(), a.tracker, a.tracker.Search(query, limit))
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of results")
	return cmd
}

func newResetCmd(flags *rootFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all saved progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete progress without --yes")
			}
			return withApp(*flags, func(a *app) error {
				if err := a.backing.Clear(); err != nil {
					return fmt.Errorf("failed to clear progress: %w", err)
				}
				a.logger.Info("progress reset", "path", a.backing.Path())
				fmt.Fprintln(cmd.OutOrStdout(), "Progress cleared.")
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}

// mutate applies one change and writes it before the process exits. The
// debounce window would otherwise drop it on Close.
func mutate(cmd *cobra.Command, flags rootFlags, fn func(t *service.Tracker) (string, error)) error {
	return withApp(flags, func(a *app) error {
		msg, err := fn(a.tracker)
		if err != nil {
			return err
		}
		if err := a.tracker.Flush(); err != nil {
			return fmt.Errorf("failed to save progress: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		return nil
	})
}

func describe(kind, id string, on bool, yes, no string) string {
	state := no
	if on {
		state = yes
	}
	return fmt.Sprintf("%s %s is now %s.", kind, id, state)
}
