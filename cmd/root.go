package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "trafficmcp",
	Short: "Serves traffic sensor analytics as MCP tools",
	Long: `trafficmcp exposes road traffic measurements (vehicle counts and average
speeds per vehicle class) to LLM clients over the Model Context Protocol, and
offers the same analytics as one-off reports and long-format exports.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	models.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.trafficmcp.yaml)")
	rootCmd.PersistentFlags().String("source", models.SourcePostgres, "Record source: postgres or synthetic")
	rootCmd.PersistentFlags().String("timezone", "Local", "Time zone used for hour-of-day analysis")
	rootCmd.PersistentFlags().Duration("query-timeout", 0, "Per-request timeout (0 keeps the configured value)")
	rootCmd.PersistentFlags().Int("synthetic-records", 2000, "Number of generated records when source is synthetic")
	rootCmd.PersistentFlags().Int64("seed", 42, "Random seed for the synthetic source")

	bindFlag("source", rootCmd.PersistentFlags().Lookup("source"))
	bindFlag("timezone", rootCmd.PersistentFlags().Lookup("timezone"))
	bindFlag("synthetic.records", rootCmd.PersistentFlags().Lookup("synthetic-records"))
	bindFlag("synthetic.seed", rootCmd.PersistentFlags().Lookup("seed"))
}

func initConfig() {
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".trafficmcp")
	}
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
