package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.trai.ch/navcache/internal/adapters/config"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/ui/style"
)

func formatBytes(n int64) string {
	return humanize.IBytes(uint64(max(n, 0)))
}

func (c *CLI) newEvictCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evict",
		Short: "Remove tiles that do not belong to the active content",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.EvictUnused(cmd.Context())
			if err != nil {
				return err
			}
			printEviction(cmd, report)
			return nil
		},
	}
}

func (c *CLI) newMaxSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "max-size [SIZE]",
		Short: "Show or set the maximum cache size",
		Long: "Show or set the maximum cache size, for example \"512MiB\" or \"2GB\".\n" +
			"Setting a size evicts least recently used tiles until the cache fits. 0 removes the limit.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				limit, err := c.app.MaxSize(cmd.Context())
				if err != nil {
					return err
				}
				if limit == 0 {
					_, _ = fmt.Fprintln(out, "unlimited")
					return nil
				}
				_, _ = fmt.Fprintln(out, formatBytes(limit))
				return nil
			}

			limit, err := config.ParseSize(args[0])
			if err != nil {
				return err
			}
			report, err := c.app.SetMaxSize(cmd.Context(), limit)
			printEviction(cmd, report)
			return err
		},
	}
}

func printEviction(cmd *cobra.Command, r domain.EvictionReport) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s removed %d tiles (%s), cache is now %s\n",
		style.Success.Render(style.Check), r.Removed, formatBytes(r.FreedBytes), formatBytes(r.TotalSize))
	if r.Pinned > 0 {
		_, _ = fmt.Fprintf(out, "  %s %d tiles kept because an update is using them\n",
			style.Caution.Render(style.Warning), r.Pinned)
	}
}

func (c *CLI) newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the cache manifest against the stored tiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := c.app.Verify(cmd.Context())
			out := cmd.OutOrStdout()

			icon := style.Success.Render(style.Check)
			if !report.Healthy() {
				icon = style.Failure.Render(style.Cross)
			}
			_, _ = fmt.Fprintf(out, "%s %d entries, manifest %s, disk %s\n",
				icon, report.Entries, formatBytes(report.ManifestSize), formatBytes(report.DiskSize))
			for _, e := range report.Corrupt {
				if e.Missing {
					_, _ = fmt.Fprintf(out, "  missing   %s\n", e.Entry.Key)
					continue
				}
				_, _ = fmt.Fprintf(out, "  size      %s (manifest %d, disk %d)\n", e.Entry.Key, e.Entry.Size, e.ActualSize)
			}
			for _, o := range report.Orphans {
				_, _ = fmt.Fprintf(out, "  orphan    %s\n", o)
			}
			return err
		},
	}
}

func (c *CLI) newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the cache contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := c.app.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			limit := "unlimited"
			if stats.MaxSize > 0 {
				limit = formatBytes(stats.MaxSize)
			}
			_, _ = fmt.Fprintf(out, "%s\n", style.Title.Render("Navigation mesh cache"))
			_, _ = fmt.Fprintf(out, "  %d tiles, %s of %s\n", stats.Tiles, formatBytes(stats.TotalSize), limit)
			for _, fp := range stats.Fingerprints {
				_, _ = fmt.Fprintf(out, "  %s  %6d tiles  %s\n", fp.Fingerprint, fp.Tiles, formatBytes(fp.Size))
			}
			return nil
		},
	}
}
