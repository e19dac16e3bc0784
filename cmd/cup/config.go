package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/standardbeagle/cup/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cup configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a documented default config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GlobalConfigPath()
		if path == "" {
			return fmt.Errorf("cannot determine user config directory")
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the global config file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GlobalConfigPath())
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
