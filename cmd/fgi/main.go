package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "fgi",
	Short: "FGI - Fear & Greed Index sentiment service",
	Long: `FGI serves the crypto Fear & Greed Index, sends Telegram alerts at
extreme sentiment levels, and backtests whether buying fear and selling
greed actually worked.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
