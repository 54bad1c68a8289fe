package types

import (
	"encoding/json"
	"fmt"
)

type DownloadStatsKind string

const (
	DownloadStatsPoint DownloadStatsKind = "point"
	DownloadStatsRange DownloadStatsKind = "range"
	// DownloadStatsOther covers bodies matching neither documented shape.
	DownloadStatsOther DownloadStatsKind = "other"
)

// PointStats is the total download count for a package over a period.
type PointStats struct {
	Downloads int64  `json:"downloads"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Package   string `json:"package"`
}

// DailyDownloads is one day of a range series.
type DailyDownloads struct {
	Downloads int64  `json:"downloads"`
	Day       string `json:"day"`
}

// RangeStats is the per-day download series for a package.
type RangeStats struct {
	Start     string           `json:"start"`
	End       string           `json:"end"`
	Package   string           `json:"package"`
	Downloads []DailyDownloads `json:"downloads"`
}

// DownloadStats holds exactly one of Point or Range, selected by Kind. The raw
// upstream body is kept so encoding reproduces it byte for byte.
type DownloadStats struct {
	Kind  DownloadStatsKind
	Point *PointStats
	Range *RangeStats
	Raw   json.RawMessage
}

func (s DownloadStats) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	switch s.Kind {
	case DownloadStatsPoint:
		if s.Point != nil {
			return json.Marshal(s.Point)
		}
	case DownloadStatsRange:
		if s.Range != nil {
			return json.Marshal(s.Range)
		}
	}
	return nil, fmt.Errorf("download stats of kind %q has no payload", s.Kind)
}

// PackageName returns the package echoed by the upstream response, if any.
func (s DownloadStats) PackageName() string {
	switch {
	case s.Point != nil:
		return s.Point.Package
	case s.Range != nil:
		return s.Range.Package
	}
	return ""
}
