package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stemsplitter/tracker/internal/client"
	"github.com/stemsplitter/tracker/internal/config"
	"github.com/stemsplitter/tracker/internal/model"
)

var (
	backendURL   string
	outputFormat string
	cfgFile      string
	pollInterval time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "stemctl",
	Short:         "Submit and track stem separation jobs",
	Long:          `stemctl submits YouTube and SoundCloud URLs to a stem separation backend and follows the jobs until their stems are ready.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stemctl/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend", "", "separation backend URL (default from config or http://localhost:5000)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().DurationVar(&pollInterval, "poll-interval", 0, "delay between two status fetches of a job (default 2s)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".stemctl"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	viper.BindEnv("backend_url", "STEMCTL_BACKEND")
	viper.BindEnv("default_model", "STEMCTL_MODEL")
	viper.BindEnv("poll_interval", "STEMCTL_POLL_INTERVAL")
	viper.BindEnv("timeout", "STEMCTL_TIMEOUT")

	viper.SetDefault("backend_url", "http://localhost:5000")
	viper.SetDefault("default_model", model.DefaultModel)
	viper.SetDefault("poll_interval", "2s")
	viper.SetDefault("timeout", 30)

	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Warning: failed to read config %s: %v\n", cfgFile, err)
	}

	if backendURL == "" {
		backendURL = viper.GetString("backend_url")
	}
	if pollInterval <= 0 {
		pollInterval = viper.GetDuration("poll_interval")
	}
}

// GetBackendURL returns the configured backend URL with trailing slashes removed
func GetBackendURL() string {
	return strings.TrimRight(backendURL, "/")
}

func defaultModel() string {
	return viper.GetString("default_model")
}

func newBackend() *client.BackendClient {
	return client.NewBackendClient(&config.BackendConfig{
		BaseURL:      GetBackendURL(),
		Timeout:      viper.GetInt("timeout"),
		DefaultModel: defaultModel(),
	})
}
