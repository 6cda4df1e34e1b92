// Package keys holds the viper configuration keys used across fetcharr.
package keys

const (
	CookiesFile = "cookies-file"
	DBPath      = "db-path"
	DebugLevel  = "debug"
	FFmpegPath  = "ffmpeg-path"
	LogFile     = "log-file"
	MaxJobs     = "max-jobs"
	Port        = "port"
	StagingDir  = "staging-dir"
	YtdlpPath   = "ytdlp-path"
)

// Internal program keys.
const (
	Execute = "execute"
)
