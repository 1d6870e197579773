package main

import (
	"os"

	"github.com/spf13/cobra"
)

type rootCmdConfig struct {
	logger
}

func main() {
	if err := cliParser().Execute(); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "canopy",
		Short: "canopy is a decision-forest model compiler",
		Long:  `A tool to compile serialized gradient-boosted-tree models into self-contained scoring modules, inspect them, and score samples against them`,
	}
	config := &rootCmdConfig{}
	rootCmd.PersistentFlags().BoolVarP((*bool)(&(config.logger)), "verbose", "v", false, "")
	rootCmd.AddCommand(versionCmd(), compileCmd(config), inspectCmd(config), predictCmd(config), storeCmd(config))
	return rootCmd
}
