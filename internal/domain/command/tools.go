// Package command holds CLI argument constants for the external tools.
package command

// yt-dlp
const (
	YTDLP            = "yt-dlp"
	CookiePath       = "--cookies"
	DumpJSON         = "-J"
	ExtractAudio     = "-x"
	AudioFormat      = "--audio-format"
	AudioQuality     = "--audio-quality"
	BestAudioQuality = "0"
	Format           = "-f"
	NewlineProgress  = "--newline"
	NoPlaylist       = "--no-playlist"
	NoWarnings       = "--no-warnings"
	Output           = "-o"
	Print            = "--print"
	TitleField       = "title"
	ExtPlaceholder   = "%(ext)s"
)

// ffmpeg
const (
	FFmpeg     = "ffmpeg"
	Input      = "-i"
	Codec      = "-c"
	StreamCopy = "copy"
	Overwrite  = "-y"
	HideBanner = "-hide_banner"
)
