// Package cmd implements the pivotcast command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pivotcast/internal/config"
	"pivotcast/internal/logger"
	"pivotcast/internal/pipeline"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pivotcast",
	Short: "Daily cybersecurity audio briefing generator",
	Long: `pivotcast collects the day's cybersecurity news, distills it with a
generative model, and narrates it into a single audio briefing.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Collect today's news and produce the audio briefing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		run, err := pipeline.NewRun(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := run.Close(); err != nil {
				logger.Warn("Failed to close cache", "error", err.Error())
			}
		}()

		if err := run.Execute(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Briefing written to %s\n", run.OutputDir())
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./pivotcast.yaml)")

	generateCmd.Flags().String("model", "", "model profile: openai, gemini, gemini-flash")
	generateCmd.Flags().String("tts", "", "speech provider: openai, elevenlabs")
	generateCmd.Flags().String("search-mode", "", "search mode: basic_keywords, google_dorks, both")
	generateCmd.Flags().Bool("no-filtering", false, "skip relevance filtering")
	generateCmd.Flags().Bool("no-enhancement", false, "skip article enhancement")
	generateCmd.Flags().Int("max-articles", 0, "maximum articles after filtering")
	generateCmd.Flags().Int("days-back", 0, "how many days of news to search")

	bind := func(key, flag string) {
		if err := viper.BindPFlag(key, generateCmd.Flags().Lookup(flag)); err != nil {
			logger.Warn("Failed to bind flag", "flag", flag, "error", err.Error())
		}
	}
	bind("model", "model")
	bind("tts", "tts")
	bind("search.mode", "search-mode")
	bind("filtering.max_articles", "max-articles")
	bind("search.days_back", "days-back")

	generateCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("no-filtering"); v {
			viper.Set("filtering.enabled", false)
		}
		if v, _ := cmd.Flags().GetBool("no-enhancement"); v {
			viper.Set("enhancement.enabled", false)
		}
	}

	rootCmd.AddCommand(generateCmd)
}

func initConfig() {
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env file")
	}

	config.SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("pivotcast")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("")
	viper.AutomaticEnv()
	for _, key := range []string{"openai_api_key", "openai_api_base", "gemini_api_key", "serper_api_key", "eleven_labs_api_key"} {
		if err := viper.BindEnv(key); err != nil {
			logger.Warn("Failed to bind environment variable", "key", key, "error", err.Error())
		}
	}

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Loaded config file", "path", viper.ConfigFileUsed())
	}
}
