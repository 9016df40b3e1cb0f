package commenttool

import (
	"context"
	"io"

	"comment-tool/internal/pattern"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
)

// Mode selects the per-file operation of a run.
type Mode int

const (
	// ModeExtract records Japanese comments in the dictionary.
	ModeExtract Mode = iota
	ModeScanJapanese
	ModeScanNonASCII
	ModeScanBOM
	ModeRemoveBOM
	// ModeStripComments rewrites files without their comments.
	ModeStripComments
)

var modeNames = map[Mode]string{
	ModeExtract:       "extract",
	ModeScanJapanese:  "scan",
	ModeScanNonASCII:  "scan-non-ascii",
	ModeScanBOM:       "scan-bom",
	ModeRemoveBOM:     "remove-bom",
	ModeStripComments: "strip-comments",
}

var modeDescriptions = map[Mode]string{
	ModeExtract:       "Processing files",
	ModeScanJapanese:  "Scanning for Japanese characters",
	ModeScanNonASCII:  "Scanning for non-ASCII characters",
	ModeScanBOM:       "Scanning for BOM characters",
	ModeRemoveBOM:     "Removing BOM characters",
	ModeStripComments: "Stripping comments",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// Description is the progress label of the mode.
func (m Mode) Description() string {
	return modeDescriptions[m]
}

// Result splits the files of a run by outcome.
type Result struct {
	Processed []string
	Failed    []string
}

// Runner applies one mode to a list of files, one file at a time. A failing
// file is logged and skipped; the remaining files are still processed.
type Runner struct {
	tool        *Tool
	log         zerolog.Logger
	progressOut io.Writer
}

// NewRunner creates a Runner. Progress is drawn on progressOut; pass
// io.Discard to hide it.
func NewRunner(tool *Tool, logger zerolog.Logger, progressOut io.Writer) *Runner {
	if progressOut == nil {
		progressOut = io.Discard
	}
	return &Runner{
		tool:        tool,
		log:         logger,
		progressOut: progressOut,
	}
}

// Run processes files sequentially in the given mode.
func (r *Runner) Run(ctx context.Context, mode Mode, files []string) Result {
	var result Result

	if len(files) == 0 {
		r.log.Warn().Msg("No source files found!")
		return result
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(r.progressOut),
		progressbar.OptionSetDescription(mode.Description()),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)

	for _, file := range files {
		select {
		case <-ctx.Done():
			r.log.Warn().Err(ctx.Err()).Int("remaining", len(files)-len(result.Processed)-len(result.Failed)).Msg("Run cancelled")
			return result
		default:
		}

		if r.runFile(ctx, mode, file) {
			result.Processed = append(result.Processed, file)
		} else {
			result.Failed = append(result.Failed, file)
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	r.log.Info().
		Str("mode", mode.String()).
		Int("processed", len(result.Processed)).
		Int("failed", len(result.Failed)).
		Msg("Run complete")

	return result
}

func (r *Runner) runFile(ctx context.Context, mode Mode, file string) bool {
	switch mode {
	case ModeScanJapanese:
		return r.report(file, "Japanese", true, r.tool.ScanJapanese)
	case ModeScanNonASCII:
		return r.report(file, "non-ASCII", true, r.tool.ScanNonASCII)
	case ModeScanBOM:
		return r.report(file, "BOM", false, r.tool.ScanBOM)
	case ModeRemoveBOM:
		removed, err := r.tool.RemoveBOM(file)
		if err != nil {
			r.log.Error().Err(err).Str("file", file).Msg("Error removing BOM from file")
			return false
		}
		if removed {
			r.log.Info().Str("file", file).Msg("Removed BOM")
		}
		return true
	case ModeStripComments:
		changed, err := r.tool.StripComments(file)
		if err != nil {
			r.log.Error().Err(err).Str("file", file).Msg("Error stripping comments")
			return false
		}
		if changed {
			r.log.Info().Str("file", file).Msg("Stripped comments")
		}
		return true
	default:
		if err := r.tool.ProcessFile(ctx, file); err != nil {
			r.log.Error().Err(err).Str("file", file).Msg("Error processing file")
			return false
		}
		return true
	}
}

func (r *Runner) report(file, kind string, withChar bool, scan func(string) ([]pattern.Position, error)) bool {
	positions, err := scan(file)
	if err != nil {
		r.log.Error().Err(err).Str("file", file).Msg("Error scanning file")
		return false
	}
	if len(positions) == 0 {
		return true
	}

	r.log.Info().Str("file", file).Int("count", len(positions)).Msgf("Found %s characters", kind)
	for _, p := range positions {
		ev := r.log.Info().Str("file", file).Int("line", p.Line).Int("position", p.Column)
		if withChar {
			ev = ev.Str("char", p.Char)
		}
		ev.Msgf("%s character", kind)
	}
	return true
}
