package logs

import (
	"strings"

	"github.com/arthur-debert/gsmake/pkg/directive"
	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/logging"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/arthur-debert/gsmake/pkg/paths"
	"github.com/dustin/go-humanize"
)

// SourceSet selects which family of source logs to write
type SourceSet struct {
	Name     string
	StatsKey string
	HeadsKey string
	MapKey   string
	Success  string
}

// Source log families. Link logs describe everything a module linked or
// copied; input and external logs cover one side each.
var (
	LinkLogs = SourceSet{
		Name:     "write_link_logs",
		StatsKey: paths.KeyLinkStatsLog,
		HeadsKey: paths.KeyLinkHeadsLog,
		MapKey:   paths.KeyLinkMapLog,
		Success:  "Link logs successfully written!",
	}
	InputLogs = SourceSet{
		Name:     "write_input_logs",
		StatsKey: paths.KeyInputStatsLog,
		HeadsKey: paths.KeyInputHeadsLog,
		MapKey:   paths.KeyInputMapLog,
		Success:  "Input logs successfully written!",
	}
	ExternalLogs = SourceSet{
		Name:     "write_external_logs",
		StatsKey: paths.KeyExternalStatsLog,
		HeadsKey: paths.KeyExternalHeadsLog,
		MapKey:   paths.KeyExternalMapLog,
		Success:  "External logs successfully written!",
	}
)

// LogFilesInOutput writes statistics and headers for every file under
// output_dir and the optional output_local_dir (a comma separated list).
// output_stats_log is required; output_heads_log is optional.
func (w *Writer) LogFilesInOutput(log *makelog.Session, p paths.Paths, depth int) error {
	done := logging.LogOperationStart(w.logger, "log_files_in_output")
	defer done()

	err := w.logFilesInOutput(log, p, depth)
	if err != nil {
		w.printer.Failure("Error with `log_files_in_output`")
		return log.LogError(err)
	}
	return nil
}

func (w *Writer) logFilesInOutput(log *makelog.Session, p paths.Paths, depth int) error {
	outputDir, err := p.Get(paths.KeyOutputDir)
	if err != nil {
		return err
	}
	statsLog, err := p.Get(paths.KeyOutputStatsLog)
	if err != nil {
		return err
	}

	roots := []string{outputDir}
	if local, ok := p.Lookup(paths.KeyOutputLocalDir); ok {
		roots = append(roots, splitList(local)...)
	}
	files, err := w.collect(roots, depth)
	if err != nil {
		return err
	}

	if err := w.WriteStatsLog(statsLog, files); err != nil {
		return err
	}
	if headsLog, ok := p.Lookup(paths.KeyOutputHeadsLog); ok {
		if err := w.WriteHeadsLog(headsLog, files); err != nil {
			return err
		}
	}

	const msg = "Output logs successfully written!"
	if err := log.Write(msg); err != nil {
		return err
	}
	w.printer.Success(msg)
	w.printSummary(files)
	return nil
}

// WriteSourceLogs writes the statistics, headers and map logs of set for
// the sources in pairs. Each log is written only when its key is set.
// Sources that are directories are walked to depth.
func (w *Writer) WriteSourceLogs(log *makelog.Session, p paths.Paths, set SourceSet, pairs directive.Map, depth int) error {
	done := logging.LogOperationStart(w.logger, set.Name)
	defer done()

	err := w.writeSourceLogs(log, p, set, pairs, depth)
	if err != nil {
		w.printer.Failure("Error with `%s`", set.Name)
		return log.LogError(err)
	}
	return nil
}

func (w *Writer) writeSourceLogs(log *makelog.Session, p paths.Paths, set SourceSet, pairs directive.Map, depth int) error {
	files, err := w.collect(pairs.Sources(), depth)
	if err != nil {
		return err
	}

	written := 0
	if statsLog, ok := p.Lookup(set.StatsKey); ok {
		if err := w.WriteStatsLog(statsLog, files); err != nil {
			return err
		}
		written++
	}
	if headsLog, ok := p.Lookup(set.HeadsKey); ok {
		if err := w.WriteHeadsLog(headsLog, files); err != nil {
			return err
		}
		written++
	}
	if mapLog, ok := p.Lookup(set.MapKey); ok {
		if err := w.WriteMapLog(mapLog, pairs); err != nil {
			return err
		}
		written++
	}
	if written == 0 {
		return errors.Newf(errors.ErrMissingPathKey,
			"argument `paths` has none of the keys `%s`, `%s`, `%s`", set.StatsKey, set.HeadsKey, set.MapKey)
	}

	if err := log.Write(set.Success); err != nil {
		return err
	}
	w.printer.Success(set.Success)
	w.printSummary(files)
	return nil
}

func (w *Writer) printSummary(files []string) {
	var total int64
	for _, name := range files {
		if info, err := w.fs.Stat(name); err == nil {
			total += info.Size()
		}
	}
	w.printer.Plain("%s files, %s", humanize.Comma(int64(len(files))), humanize.Bytes(uint64(total)))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
