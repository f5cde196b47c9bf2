package weatherdata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"weatherattest/internal/oracleerr"
)

// DirIndex is the local-filesystem File Index collaborator: it expects
// files laid out as <root>/<YYYY-MM-DD>/<kind>_<rfc3339>.parquet.
type DirIndex struct {
	root string
}

// NewDirIndex constructs a DirIndex rooted at dir.
func NewDirIndex(dir string) *DirIndex {
	return &DirIndex{root: dir}
}

// ListFiles returns the filenames (not full paths) of every parquet file
// whose date folder falls in [params.Start.date, params.End.date] and whose
// filename timestamp falls within [params.Start, params.End], filtered by
// kind.
func (d *DirIndex) ListFiles(params FileParams) ([]string, error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, oracleerr.WeatherData(err, "list_files: read data directory %s", d.root)
	}

	var out []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		day, err := time.Parse("2006-01-02", entry.Name())
		if err != nil {
			continue
		}
		if day.After(params.End.UTC().Truncate(24 * time.Hour)) {
			continue
		}
		if day.Before(params.Start.UTC().Truncate(24 * time.Hour)) {
			continue
		}

		dayEntries, err := os.ReadDir(filepath.Join(d.root, entry.Name()))
		if err != nil {
			return nil, oracleerr.WeatherData(err, "list_files: read date folder %s", entry.Name())
		}
		for _, f := range dayEntries {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".parquet") {
				continue
			}
			kind, ts, err := parseFilename(f.Name())
			if err != nil {
				continue
			}
			if params.Forecasts && kind != KindForecasts {
				continue
			}
			if params.Observations && kind != KindObservations {
				continue
			}
			if ts.Before(params.Start) || ts.After(params.End) {
				continue
			}
			out = append(out, f.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// ResolvePaths reconstructs <root>/<YYYY-MM-DD>/<filename> for each
// filename, reading the date from its embedded timestamp.
func (d *DirIndex) ResolvePaths(filenames []string) ([]string, error) {
	out := make([]string, 0, len(filenames))
	for _, name := range filenames {
		_, ts, err := parseFilename(name)
		if err != nil {
			return nil, oracleerr.WeatherData(err, "resolve_paths: parse filename %s", name)
		}
		day := ts.UTC().Format("2006-01-02")
		out = append(out, filepath.Join(d.root, day, name))
	}
	return out, nil
}

// parseFilename splits "<kind>_<rfc3339>.parquet" into its kind and
// timestamp. RFC 3339 timestamps contain colons, which the os-level
// filename keeps verbatim; this module only ever writes/reads names it
// produced itself via the same contract.
func parseFilename(name string) (FileKind, time.Time, error) {
	trimmed := strings.TrimSuffix(name, ".parquet")
	underscore := strings.Index(trimmed, "_")
	if underscore < 0 {
		return "", time.Time{}, oracleerr.WeatherData(nil, "filename %q missing kind separator", name)
	}
	kindStr, tsStr := trimmed[:underscore], trimmed[underscore+1:]

	var kind FileKind
	switch kindStr {
	case "forecasts":
		kind = KindForecasts
	case "observations":
		kind = KindObservations
	default:
		return "", time.Time{}, oracleerr.WeatherData(nil, "filename %q has unknown kind %q", name, kindStr)
	}

	ts, err := time.Parse(time.RFC3339, tsStr)
	if err != nil {
		return "", time.Time{}, oracleerr.WeatherData(err, "filename %q has unparseable timestamp", name)
	}
	return kind, ts.UTC(), nil
}
