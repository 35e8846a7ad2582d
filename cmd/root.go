/*
	Copyright 2023 Markus Papenbrock
*/

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	cacheCmd "github.com/mpapenbr/minisector-dominance/pkg/cmd/cache"
	compareCmd "github.com/mpapenbr/minisector-dominance/pkg/cmd/compare"
	"github.com/mpapenbr/minisector-dominance/pkg/config"
	"github.com/mpapenbr/minisector-dominance/version"
)

const envPrefix = "MSD"

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "msd",
	Short: "Minisector dominance maps of F1 qualifying laps",
	Long: `Compares the fastest laps of two drivers and renders the track
colored by the driver who was faster in each minisector.`,
	Version:      version.FullVersion,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

//nolint:funlen // flag definitions
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.msd.yml)")

	rootCmd.PersistentFlags().StringVar(&config.CacheDir, "cacheDir",
		config.DefaultCacheDir,
		"directory of the response cache file")
	rootCmd.PersistentFlags().StringVar(&config.CacheDB, "cacheDB",
		"",
		"postgres connection string, if set the responses are cached there")
	rootCmd.PersistentFlags().BoolVar(&config.NoCache, "noCache",
		false,
		"do not use a response cache")
	rootCmd.PersistentFlags().StringVar(&config.OutputDir, "outputDir",
		".",
		"directory for the generated files")
	rootCmd.PersistentFlags().BoolVar(&config.HTML, "html",
		false,
		"also write an interactive html map")
	rootCmd.PersistentFlags().StringVar(&config.SourceURL, "sourceURL",
		config.DefaultSourceURL,
		"base url of the telemetry api")
	rootCmd.PersistentFlags().StringVar(&config.Timeout, "timeout",
		"1m",
		"timeout for a single request to the telemetry api")
	rootCmd.PersistentFlags().StringVar(&config.WaitForServices,
		"waitForServices",
		"15s",
		"Duration to wait for the cache database to be ready")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"logLevel",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"logFormat",
		"text",
		"controls the log output format (json, text)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"logFilter",
		"",
		"zapfilter rules, e.g. \"debug:telemetry.* info:*\"")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enableTelemetry",
		false,
		"enable otel traces and metrics")
	rootCmd.PersistentFlags().StringVar(&config.TelemetryEndpoint,
		"telemetryEndpoint",
		"",
		"OTLP/gRPC collector (host:port), traces and metrics go to stderr if empty")

	// add commands here
	rootCmd.AddCommand(compareCmd.NewCompareCmd())
	rootCmd.AddCommand(cacheCmd.NewCacheCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".msd" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".msd")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
		for _, sub := range cmd.Commands() {
			bindFlags(sub, viper.GetViper())
		}
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --favorite-color to STING_FAVORITE_COLOR
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}
