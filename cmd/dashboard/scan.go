package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bryanwahyu/secscan-dashboard/internal/domain/dashboard"
)

func newScanCommand(opts *rootOptions) *cobra.Command {
	var (
		file    string
		asJSON  bool
		noStore bool
	)
	cmd := &cobra.Command{
		Use:   "scan --file FILE",
		Short: "Analyze one file and print the dashboard summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				return errors.New("--file is required (use - for stdin)")
			}
			code, err := readSource(cmd.InOrStdin(), file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, opts.cfg, opts.log)
			if err != nil {
				return err
			}
			defer a.Close()
			if noStore {
				a.scans.Repo = nil
				a.scans.Archive = nil
			} else if err := a.repo.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("ensure schema: %w", err)
			}

			r, err := a.scans.Analyze(ctx, code)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			v, err := dashboard.Render(dashboard.ZeroView(), r)
			if err != nil {
				return err
			}
			return printView(out, v, string(r.Status), r.ScanID)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Source file to analyze, - for stdin")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw analysis result")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not record the scan")
	return cmd
}

func readSource(stdin io.Reader, file string) (string, error) {
	var (
		data []byte
		err  error
	)
	if file == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(file)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", file, err)
	}
	return string(data), nil
}

func printView(w io.Writer, v dashboard.View, status, scanID string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Status\t%s\n", status)
	if scanID != "" {
		fmt.Fprintf(tw, "Scan\t%s\n", scanID)
	}
	fmt.Fprintf(tw, "Risk level\t%s\n", v.RiskLevel)
	fmt.Fprintf(tw, "Overall security\t%s\n", v.Overall.Label)
	fmt.Fprintf(tw, "Static analysis\t%s\t%d issues\n", v.Static.Label, v.Counters.Static)
	fmt.Fprintf(tw, "Dependency analysis\t%s\t%d issues\n", v.Dependency.Label, v.Counters.Dependency)
	fmt.Fprintf(tw, "AI analysis\t%s\t%d issues\n", v.AI.Label, v.Counters.AI)
	fmt.Fprintf(tw, "Total issues\t%d\n", v.Counters.Total)
	fmt.Fprintf(tw, "Critical issues\t%d\n", v.Counters.Critical)
	return tw.Flush()
}
