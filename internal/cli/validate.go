package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"campaign-validator/internal/plan"
	"campaign-validator/internal/validation"
)

// InvalidPlanError is returned when at least one campaign failed.
type InvalidPlanError struct {
	Invalid int
	Total   int
}

func (e *InvalidPlanError) Error() string {
	return fmt.Sprintf("%d of %d campaigns failed validation", e.Invalid, e.Total)
}

// ExitCode returns the process exit code for a failed plan.
func (e *InvalidPlanError) ExitCode() int { return 2 }

func newValidateCmd() *cobra.Command {
	var (
		asJSON  bool
		workers int
	)

	cmd := &cobra.Command{
		Use:   "validate <plan.yaml>",
		Short: "Validate every campaign of a plan file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.Load(args[0])
			if err != nil {
				return err
			}
			log.Debug().Str("plan", p.Name).Int("campaigns", len(p.Campaigns)).Msg("plan loaded")

			reports, err := p.Check(cmd.Context(), validation.NewValidator(), workers)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(reports); err != nil {
					return err
				}
			} else {
				writeReports(out, reports)
			}

			invalid := 0
			for _, r := range reports {
				if !r.Valid() {
					invalid++
				}
			}
			if invalid > 0 {
				return &InvalidPlanError{Invalid: invalid, Total: len(reports)}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output reports as JSON")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent validations")
	return cmd
}

func writeReports(w io.Writer, reports []plan.Report) {
	for i, r := range reports {
		status := "ok"
		if !r.Valid() {
			status = "FAIL"
		}
		fmt.Fprintf(w, "%3d  %-4s  %s", i+1, status, r.Campaign.CampaignType)
		if errs := r.Errors(); len(errs) > 0 {
			fmt.Fprintf(w, "  %s", strings.Join(errs, "; "))
		}
		fmt.Fprintln(w)
	}
}

func newArchetypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archetypes",
		Short: "List known campaign types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, e := range validation.Catalog() {
				fmt.Fprintf(out, "%-26s %-3s %s\n", e.Code, e.Channel, e.Family)
			}
			return nil
		},
	}
}
