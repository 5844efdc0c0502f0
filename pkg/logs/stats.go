package logs

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/gsmake/pkg/errors"
	"github.com/arthur-debert/gsmake/pkg/makelog"
	"github.com/spf13/afero"
)

// Stat is one line of a statistics log
type Stat struct {
	Name     string
	Modified time.Time
	Size     int64
}

// String renders the line with the modification time in UTC, rounded to
// the second
func (s Stat) String() string {
	return fmt.Sprintf("%s | %s | %d", s.Name, s.Modified.UTC().Round(time.Second).Format(makelog.TimeLayout), s.Size)
}

// ParseStat reads a line written by Stat.String. File names may contain
// the separator; the last two fields are taken from the right.
func ParseStat(line string) (Stat, error) {
	sizeAt := strings.LastIndex(line, " | ")
	if sizeAt < 0 {
		return Stat{}, errors.Newf(errors.ErrSyntax, "statistics line `%s` has no fields", line)
	}
	modAt := strings.LastIndex(line[:sizeAt], " | ")
	if modAt < 0 {
		return Stat{}, errors.Newf(errors.ErrSyntax, "statistics line `%s` has too few fields", line)
	}

	size, err := strconv.ParseInt(strings.TrimSpace(line[sizeAt+3:]), 10, 64)
	if err != nil {
		return Stat{}, errors.Wrapf(err, errors.ErrSyntax, "statistics line `%s` has an invalid size", line)
	}
	modified, err := time.Parse(makelog.TimeLayout, strings.TrimSpace(line[modAt+3:sizeAt]))
	if err != nil {
		return Stat{}, errors.Wrapf(err, errors.ErrSyntax, "statistics line `%s` has an invalid time", line)
	}
	return Stat{Name: line[:modAt], Modified: modified, Size: size}, nil
}

// ReadStatsLog parses a statistics log
func ReadStatsLog(fsys afero.Fs, path string) ([]Stat, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot open `%s`", path)
	}
	defer func() { _ = f.Close() }()

	var stats []Stat
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if first {
			first = false
			if line == StatsHeader {
				continue
			}
		}
		if line == "" {
			continue
		}
		stat, err := ParseStat(line)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read `%s`", path)
	}
	return stats, nil
}
