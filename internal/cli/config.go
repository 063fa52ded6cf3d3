package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/gauntlet/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the repo-local workflow configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .gauntlet/config.yaml",
	Run: func(cmd *cobra.Command, args []string) {
		root, err := resolveRepoRoot()
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		if _, err := os.Stat(config.Path(root)); err == nil {
			fail(ExitUsageError, "config file already exists: %s", config.Path(root))
			return
		}
		if err := config.Save(root, config.Default()); err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", config.Path(root))
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Run: func(cmd *cobra.Command, args []string) {
		root, err := resolveRepoRoot()
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		cfg, err := config.Load(root, nil)
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		fmt.Fprint(os.Stdout, string(data))
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value in .gauntlet/config.yaml",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		root, err := resolveRepoRoot()
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		cfg, err := config.LoadFile(root)
		if err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			fail(ExitUsageError, "%v", err)
			return
		}
		if err := config.Save(root, cfg); err != nil {
			fail(ExitRuntimeError, "%v", err)
			return
		}
		fmt.Fprintf(os.Stdout, "%s = %s\n", args[0], args[1])
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
