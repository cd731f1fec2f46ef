package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Uvaancovie/xamu-engineers-crossplatform/internal/report"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the dashboard statistics for a user as JSON",
	Example: `  xamu stats --email field@example.com`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		u, err := a.accounts.LookupUser(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
		overview, err := a.workspace.GlobalStats(cmd.Context(), u)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(overview)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a project's field records to an XLSX workbook",
	Example: `  xamu export --email field@example.com --project 0192f3c4-... --out rietvlei.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		email, _ := cmd.Flags().GetString("email")
		projectID, _ := cmd.Flags().GetString("project")
		out, _ := cmd.Flags().GetString("out")

		a, err := openApp(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer a.Close(logger)

		u, err := a.accounts.LookupUser(cmd.Context(), email)
		if err != nil {
			return fmt.Errorf("user %s: %w", email, err)
		}
		view, err := a.workspace.ProjectView(cmd.Context(), u, projectID, "")
		if err != nil {
			return fmt.Errorf("project %s: %w", projectID, err)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		if err := report.ProjectWorkbook(f, view.Project, view.Records); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info("exported project", "project", view.Project.ProjectName, "records", len(view.Records), "out", out)
		return nil
	},
}

func init() {
	statsCmd.Flags().String("email", "", "account email")
	_ = statsCmd.MarkFlagRequired("email")

	exportCmd.Flags().String("email", "", "account email")
	exportCmd.Flags().String("project", "", "project id")
	exportCmd.Flags().String("out", "project.xlsx", "output file")
	_ = exportCmd.MarkFlagRequired("email")
	_ = exportCmd.MarkFlagRequired("project")
}
