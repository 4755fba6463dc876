package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/simdb/internal/config"
	"github.com/kokistudios/simdb/internal/store"
	"github.com/kokistudios/simdb/internal/ui"
)

const noEntriesMsg = "No entries in the database."

func (c *cli) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> [category]",
		Short: "Add an entry, followed by an optional category",
		Long:  "Add an entry stamped with the current time. Without a category the entry is filed under journal.default_category (\"none\" unless configured).",
		Example: `  simdb add "some item name" "some category name"
  simdb add "Write report" work`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			var category string
			if len(args) == 2 {
				category = args[1]
			}
			rec, err := s.Add(args[0], category)
			if err != nil {
				return err
			}
			ui.Success(fmt.Sprintf("Added %s %s", ui.Bold(rec.Name), ui.Dim("to "+rec.Category)))
			ui.Detail("Date:", rec.Date)
			ui.Detail("Category:", rec.Category)
			return nil
		},
	}
}

func (c *cli) latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest [category]",
		Short: "Print the last added entry, or every entry in a category",
		Example: `  simdb latest
  simdb latest work`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			var category string
			if len(args) == 1 {
				category = args[0]
			}
			records, err := s.Latest(category)
			if errors.Is(err, store.ErrNoEntries) {
				ui.EmptyState(noEntriesMsg)
				return nil
			}
			if err != nil {
				return err
			}
			if len(records) == 0 {
				ui.EmptyState(fmt.Sprintf("No entries in category %q.", category))
				return nil
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
}

func (c *cli) allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Print all entries, oldest first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			records, err := s.All()
			if errors.Is(err, store.ErrNoEntries) {
				ui.EmptyState(noEntriesMsg)
				return nil
			}
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with entry counts",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			cats, err := s.Categories()
			if errors.Is(err, store.ErrNoEntries) {
				ui.EmptyState(noEntriesMsg)
				return nil
			}
			if err != nil {
				return err
			}
			var rows [][]string
			for _, cc := range cats {
				rows = append(rows, []string{cc.Category, fmt.Sprint(cc.Count), cc.Last})
			}
			ui.Table([]string{"CATEGORY", "ENTRIES", "LAST"}, rows)
			return nil
		},
	}
}

// exportDoc is the YAML document written by export.
type exportDoc struct {
	Source     string         `yaml:"source"`
	ExportedAt string         `yaml:"exported_at"`
	Records    []store.Record `yaml:"records"`
}

func (c *cli) exportCmd() *cobra.Command {
	var outputPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all entries as YAML",
		Example: `  simdb export
  simdb export -o journal.yaml`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openStore()
			if err != nil {
				return err
			}
			records, err := s.All()
			if errors.Is(err, store.ErrNoEntries) {
				ui.EmptyState(noEntriesMsg)
				return nil
			}
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(exportDoc{
				Source:     s.Path(),
				ExportedAt: time.Now().UTC().Format(time.RFC3339),
				Records:    records,
			})
			if err != nil {
				return fmt.Errorf("failed to marshal export: %w", err)
			}

			if outputPath == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outputPath, data, 0644); err != nil {
				return fmt.Errorf("%w: write %s: %w", store.ErrIO, outputPath, err)
			}
			ui.Success(fmt.Sprintf("Exported %d entries to %s", len(records), outputPath))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func (c *cli) doctorCmd() *cobra.Command {
	var fix, yes bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the journal file and configuration for problems",
		Long:  "Scan the configuration and every line of the journal. With --fix, create missing configuration and drop journal lines that do not hold exactly three fields.",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.Dir()
			if fix {
				ui.SectionHeader("DOCTOR · repair")
				for _, f := range config.FixIssues(dir) {
					ui.Success(fmt.Sprintf("[FIXED] %s", f))
				}
			} else {
				ui.SectionHeader("DOCTOR")
			}

			s, err := c.openStore()
			if err != nil {
				return err
			}
			ui.Detail("Journal:", s.Path())

			var errCount, warnCount int
			for _, issue := range config.CheckHealth(dir) {
				if issue.Severity == "error" {
					ui.Error(fmt.Sprintf("[ERR]  config: %s", issue.Message))
					errCount++
				} else {
					ui.Warning(fmt.Sprintf("[WARN] config: %s", issue.Message))
					warnCount++
				}
			}

			journalIssues, err := s.Check()
			if err != nil {
				return err
			}
			var malformed int
			for _, issue := range journalIssues {
				if issue.Severity == "error" {
					ui.Error(fmt.Sprintf("[ERR]  line %d: %s", issue.Line, issue.Message))
					errCount++
					malformed++
				} else {
					ui.Warning(fmt.Sprintf("[WARN] line %d: %s", issue.Line, issue.Message))
					warnCount++
				}
			}

			if fix && malformed > 0 {
				if !yes {
					ok, err := ui.Confirm(fmt.Sprintf("Drop %d malformed line(s) from %s?", malformed, s.Path()))
					if err != nil {
						return fmt.Errorf("confirmation failed (use --yes when not on a terminal): %w", err)
					}
					if !ok {
						ui.Info("Left the journal untouched.")
						return &exitError{code: exitFailure, msg: fmt.Sprintf("%d error(s) found", errCount)}
					}
				}
				dropped, err := s.Repair()
				if err != nil {
					return err
				}
				ui.Success(fmt.Sprintf("[FIXED] dropped %d malformed record(s)", dropped))
				errCount -= malformed
			}

			if errCount == 0 && warnCount == 0 {
				ui.Success("Everything looks good")
				return nil
			}
			if errCount > 0 {
				return &exitError{code: exitFailure, msg: fmt.Sprintf("%d error(s) found", errCount)}
			}
			ui.Info(fmt.Sprintf("%d warning(s) found", warnCount))
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Repair configuration and drop malformed journal lines")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask before dropping lines")
	return cmd
}

// printRecords writes records in their stored name,date,category form.
func printRecords(w io.Writer, records []store.Record) error {
	for _, r := range records {
		if _, err := fmt.Fprintln(w, r.String()); err != nil {
			return err
		}
	}
	return nil
}
