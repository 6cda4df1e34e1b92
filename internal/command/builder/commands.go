// Package builder constructs argument lists for the external tools.
package builder

import (
	"fmt"
	"strconv"
	"strings"

	cmdc "fetcharr/internal/domain/command"
	"fetcharr/internal/domain/consts"
	"fetcharr/internal/domain/errtypes"
)

// TitleArgs builds the yt-dlp invocation that prints only the source title.
func TitleArgs(url, cookiesFile string) []string {
	args := []string{cmdc.Print, cmdc.TitleField, cmdc.NoPlaylist, cmdc.NoWarnings}
	if cookiesFile != "" {
		args = append(args, cmdc.CookiePath, cookiesFile)
	}
	return append(args, url)
}

// MetadataArgs builds the yt-dlp invocation that dumps full JSON metadata.
func MetadataArgs(url, cookiesFile string) []string {
	args := []string{cmdc.DumpJSON, cmdc.NoPlaylist, cmdc.NoWarnings}
	if cookiesFile != "" {
		args = append(args, cmdc.CookiePath, cookiesFile)
	}
	return append(args, url)
}

// DownloadArgs builds the yt-dlp invocation for the main fetch, selecting
// streams per the requested format and quality and writing to the output
// template (extension resolved by the tool).
func DownloadArgs(url, format, quality, outputTemplate, cookiesFile string) ([]string, error) {
	selector, err := FormatSelector(format, quality)
	if err != nil {
		return nil, err
	}

	args := []string{
		cmdc.Format, selector,
		cmdc.Output, outputTemplate,
		cmdc.NewlineProgress,
		cmdc.NoPlaylist,
	}

	if consts.AudioFormats[format] {
		args = append(args,
			cmdc.ExtractAudio,
			cmdc.AudioFormat, format,
			cmdc.AudioQuality, cmdc.BestAudioQuality)
	}

	if cookiesFile != "" {
		args = append(args, cmdc.CookiePath, cookiesFile)
	}

	return append(args, url), nil
}

// RemuxArgs builds the ffmpeg stream-copy invocation between containers.
// No re-encode takes place.
func RemuxArgs(inPath, outPath string) []string {
	return []string{
		cmdc.HideBanner,
		cmdc.Overwrite,
		cmdc.Input, inPath,
		cmdc.Codec, cmdc.StreamCopy,
		outPath,
	}
}

// FormatSelector builds the yt-dlp stream selector expression for the
// requested format and quality.
//
// Audio targets select best-quality audio; extraction to the requested
// codec is handled by the -x flags. Video targets prefer a combined
// video+audio pick in the requested container, capped at the requested
// vertical resolution unless quality is "auto", always falling back to the
// best overall stream.
func FormatSelector(format, quality string) (string, error) {
	switch {
	case consts.AudioFormats[format]:
		return "bestaudio/best", nil

	case consts.VideoFormats[format]:
		if quality == consts.QualityAuto {
			return fmt.Sprintf("bestvideo[ext=%s]+bestaudio/best[ext=%s]/best", format, format), nil
		}

		height, err := parseHeight(quality)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"bestvideo[height<=%d][ext=%s]+bestaudio/best[height<=%d][ext=%s]/best[height<=%d]/best",
			height, format, height, format, height), nil

	default:
		return "", &errtypes.UnsupportedFormat{Format: format}
	}
}

// parseHeight converts a "<height>p" quality selector to its numeric height.
func parseHeight(quality string) (int, error) {
	trimmed, ok := strings.CutSuffix(quality, "p")
	if !ok {
		return 0, &errtypes.ValidationFailure{Msg: fmt.Sprintf("invalid quality selector %q", quality)}
	}
	height, err := strconv.Atoi(trimmed)
	if err != nil || height <= 0 {
		return 0, &errtypes.ValidationFailure{Msg: fmt.Sprintf("invalid quality selector %q", quality)}
	}
	return height, nil
}
