package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/ui/style"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the active content files in load order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := c.app.Resolve(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, style.Title.Render("Active content"))
			for i, e := range set.Entries {
				icon := style.Success.Render(style.Dot)
				note := e.Source
				if e.Lockable {
					icon = style.Muted.Render(style.Lock)
					note += ", locked"
				}
				_, _ = fmt.Fprintf(out, "%3d %s %s %s\n", i+1, icon, e.File.Name, style.Muted.Render("("+note+")"))
			}
			_, _ = fmt.Fprintf(out, "\nfingerprint %s  profile %s\n", set.Fingerprint, set.Profile.ProfileID())

			printDiagnostics(out, set.Diagnostics)
			return nil
		},
	}
}

func printDiagnostics(w io.Writer, diags []domain.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, style.Title.Render("Diagnostics"))
	for _, d := range diags {
		icon := style.Caution.Render(style.Warning)
		if d.Severity == domain.SeverityError {
			icon = style.Failure.Render(style.Cross)
		}
		line := d.String()
		switch d.Kind {
		case domain.DiagMissingDependency, domain.DiagInactiveDependency, domain.DiagOrderViolation,
			domain.DiagMissingContent:
			if d.Message != "" {
				line += ": " + d.Message
			}
		}
		_, _ = fmt.Fprintf(w, "  %s %s\n", icon, line)
	}
}
