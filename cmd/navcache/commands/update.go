package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/navcache/internal/app"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/ui/style"
)

func (c *CLI) newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Generate the navigation mesh tiles missing for the active content",
		Long: "Generate the navigation mesh tiles missing for the active content.\n" +
			"Interrupting the command stops it after the tiles in progress; stored tiles are kept.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			threads, _ := cmd.Flags().GetInt("threads")
			removeUnused, _ := cmd.Flags().GetBool("remove-unused")
			quiet, _ := cmd.Flags().GetBool("quiet")

			errOut := cmd.ErrOrStderr()
			opts := app.UpdateOptions{
				Threads:      threads,
				RemoveUnused: removeUnused,
			}
			if !quiet {
				opts.OnProgress = func(p domain.Progress) {
					_, _ = fmt.Fprintf(errOut, "\r%s %d/%d tiles", style.Muted.Render(style.Circle), p.Done+p.Failed, p.Total)
				}
			}

			result, err := c.app.Update(cmd.Context(), opts)
			if !quiet {
				_, _ = fmt.Fprintln(errOut)
			}
			if result != nil {
				printUpdate(cmd, result)
			}
			return err
		},
	}

	cmd.Flags().IntP("threads", "j", -1, "Number of generation workers, 0 generates on the main thread (default from settings)")
	cmd.Flags().Bool("remove-unused", false, "Remove tiles of other content sets after a completed update")
	cmd.Flags().BoolP("quiet", "q", false, "Do not print progress")

	return cmd
}

func printUpdate(cmd *cobra.Command, r *app.UpdateResult) {
	out := cmd.OutOrStdout()

	icon := style.Success.Render(style.Check)
	switch r.State {
	case domain.JobCancelled:
		icon = style.Caution.Render(style.Warning)
	case domain.JobFailed:
		icon = style.Failure.Render(style.Cross)
	}

	p := r.Progress
	_, _ = fmt.Fprintf(out, "%s update %s: %d generated, %d cached, %d failed\n", icon, r.State, p.Done, p.Cached, p.Failed)
	if r.Set != nil {
		_, _ = fmt.Fprintf(out, "  fingerprint %s, %d workers\n", r.Set.Fingerprint, r.Workers)
	}
	if r.Eviction != nil {
		_, _ = fmt.Fprintf(out, "  removed %d unused tiles (%s)\n",
			r.Eviction.Removed, formatBytes(r.Eviction.FreedBytes))
	}
	printDiagnostics(out, r.Diagnostics)
}
