// Package cfg initializes fetcharr configuration and the root command.
package cfg

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fetcharr/internal/domain/keys"
)

var rootCmd = &cobra.Command{
	Use:   "fetcharr",
	Short: "Fetcharr is a media fetch and conversion server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("help").Changed {
			return nil // Stop further execution if help is invoked
		}
		viper.Set(keys.Execute, true)
		return nil
	},
}

// Execute binds all flags and runs the root command.
func Execute() error {
	initFlags()
	return rootCmd.Execute()
}

// initFlags initializes the root command flags and binds them to viper.
func initFlags() {
	flags := rootCmd.PersistentFlags()

	flags.String(keys.Port, "8686", "Port the server listens on")
	flags.String(keys.StagingDir, "/tmp/fetcharr", "Staging directory for in-progress artifacts")
	flags.String(keys.DBPath, "", "Path to the fetcharr database (defaults to <staging-dir>/fetcharr.db)")
	flags.String(keys.YtdlpPath, "yt-dlp", "Path to the yt-dlp executable")
	flags.String(keys.FFmpegPath, "ffmpeg", "Path to the ffmpeg executable")
	flags.String(keys.CookiesFile, "", "Optional cookies file passed to yt-dlp")
	flags.String(keys.LogFile, "", "Optional log file path")
	flags.Int(keys.MaxJobs, 4, "Maximum simultaneous jobs")
	flags.Int(keys.DebugLevel, 0, "Debug level (0-5)")

	for _, key := range []string{
		keys.Port, keys.StagingDir, keys.DBPath, keys.YtdlpPath, keys.FFmpegPath,
		keys.CookiesFile, keys.LogFile, keys.MaxJobs, keys.DebugLevel,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// GetString retrieves a string configuration value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt retrieves an integer configuration value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool retrieves a boolean configuration value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// IsSet returns whether a configuration key has a value.
func IsSet(key string) bool {
	return viper.IsSet(key)
}
