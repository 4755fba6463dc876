package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kokistudios/simdb/internal/config"
	"github.com/kokistudios/simdb/internal/ui"
)

func (c *cli) initCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Initialize SIMDB_HOME with a default config.yaml",
		Long:    "Create the SIMDB_HOME directory (~/.simdb by default) with config.yaml. simdb works without it, using sample.cv in the current directory.",
		Example: "  simdb init\n  simdb init --force",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := config.Dir()
			if err := config.Init(dir, force); err != nil {
				return err
			}
			ui.Success("simdb initialized")
			ui.Detail("Home:", dir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml with defaults")
	return cmd
}

func (c *cli) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit simdb configuration",
	}
	cmd.AddCommand(c.configShowCmd())
	cmd.AddCommand(c.configSetCmd())
	return cmd
}

func (c *cli) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current effective configuration",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.loadHome()
			if err != nil {
				return err
			}
			data, err := yaml.Marshal(h.Config)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func (c *cli) configSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long:  "Set a simdb configuration value. Valid keys: journal.path, journal.default_category, log.level.",
		Example: `  simdb config set journal.path ~/notes/journal.cv
  simdb config set journal.default_category misc
  simdb config set log.level debug`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.loadHome()
			if err != nil {
				return err
			}
			if err := h.SetValue(args[0], args[1]); err != nil {
				return &usageError{err}
			}
			ui.Success(fmt.Sprintf("Set %s = %s", args[0], args[1]))
			return nil
		},
	}
}

func completionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generate shell completion scripts",
		Long:      "Generate shell completion scripts for bash, zsh, or fish. Output the script to stdout for sourcing in your shell profile.",
		Example:   "  simdb completion bash > ~/.bashrc.d/simdb\n  simdb completion zsh > ~/.zfunc/_simdb\n  simdb completion fish > ~/.config/fish/completions/simdb.fish",
		Args:      usageArgs(cobra.ExactArgs(1)),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			default:
				return &usageError{fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", args[0])}
			}
		},
	}
}
