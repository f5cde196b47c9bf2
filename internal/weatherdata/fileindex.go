package weatherdata

import "time"

// FileKind distinguishes the two columnar file families this layer reads.
type FileKind string

const (
	KindForecasts    FileKind = "forecasts"
	KindObservations FileKind = "observations"
)

// FileParams selects a window and kind of columnar files to enumerate.
type FileParams struct {
	Start        time.Time
	End          time.Time
	Observations bool
	Forecasts    bool
}

// FileIndex is the external collaborator (consumed, not implemented, by
// this layer) that knows how weather files are laid out on disk:
// <root>/<YYYY-MM-DD>/<kind>_<rfc3339>.parquet.
type FileIndex interface {
	// ListFiles returns the names of files whose on-disk date folder falls
	// in [params.Start.Date, params.End.Date] and whose filename-embedded
	// timestamp falls in [params.Start, params.End], filtered by kind.
	ListFiles(params FileParams) ([]string, error)
	// ResolvePaths reconstructs absolute paths for the given filenames.
	ResolvePaths(filenames []string) ([]string, error)
}
