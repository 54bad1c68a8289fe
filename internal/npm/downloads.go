package npm

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
)

const (
	PeriodLastDay   = "last-day"
	PeriodLastWeek  = "last-week"
	PeriodLastMonth = "last-month"

	DefaultPeriod = PeriodLastWeek

	dateLayout = "2006-01-02"
)

// Periods lists the predefined periods accepted by the point endpoint.
var Periods = []string{PeriodLastDay, PeriodLastWeek, PeriodLastMonth}

// DownloadQuery selects download statistics for one package. When both
// StartDate and EndDate are set they take precedence over Period.
type DownloadQuery struct {
	Package   string
	Period    string
	StartDate string
	EndDate   string
}

func (q DownloadQuery) isRange() bool {
	return q.StartDate != "" && q.EndDate != ""
}

// Validate checks the query without touching the network.
func (q DownloadQuery) Validate() error {
	if !validPackageName(q.Package) {
		return ErrInvalidPackage
	}
	if (q.StartDate == "") != (q.EndDate == "") {
		return ErrPartialRange
	}
	if q.isRange() {
		for _, d := range []string{q.StartDate, q.EndDate} {
			if _, err := time.Parse(dateLayout, d); err != nil || len(d) != len(dateLayout) {
				return fmt.Errorf("%w: %q", ErrInvalidDate, d)
			}
		}
		return nil
	}
	period := q.Period
	if period == "" {
		period = DefaultPeriod
	}
	for _, p := range Periods {
		if p == period {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrInvalidPeriod, q.Period)
}

// Downloads fetches download counts from the point or range endpoint and
// returns the body unchanged, tagged with its shape.
func (c *Client) Downloads(ctx context.Context, q DownloadQuery) (types.DownloadStats, error) {
	if err := q.Validate(); err != nil {
		return types.DownloadStats{}, err
	}

	endpoint, url := c.downloadsURLFor(q)
	doc, err := c.getJSON(ctx, endpoint, url)
	if err != nil {
		return types.DownloadStats{}, err
	}
	stats := classifyDownloads(doc)
	c.log.Debug("download stats", "requested", q.Package, "package", stats.PackageName(), "kind", stats.Kind)
	return stats, nil
}

func (c *Client) downloadsURLFor(q DownloadQuery) (string, string) {
	pkg := downloadsPath(q.Package)
	if q.isRange() {
		return endpointDownloadsRange, fmt.Sprintf("%s/downloads/range/%s:%s/%s", c.downloadsURL, q.StartDate, q.EndDate, pkg)
	}
	period := q.Period
	if period == "" {
		period = DefaultPeriod
	}
	return endpointDownloadsPoint, fmt.Sprintf("%s/downloads/point/%s/%s", c.downloadsURL, period, pkg)
}

func classifyDownloads(doc gjson.Result) types.DownloadStats {
	stats := types.DownloadStats{Kind: types.DownloadStatsOther, Raw: []byte(doc.Raw)}
	downloads := doc.Get("downloads")
	switch {
	case downloads.Type == gjson.Number:
		stats.Kind = types.DownloadStatsPoint
		stats.Point = &types.PointStats{
			Downloads: downloads.Int(),
			Start:     doc.Get("start").String(),
			End:       doc.Get("end").String(),
			Package:   doc.Get("package").String(),
		}
	case downloads.IsArray():
		series := make([]types.DailyDownloads, 0, len(downloads.Array()))
		for _, day := range downloads.Array() {
			series = append(series, types.DailyDownloads{
				Downloads: day.Get("downloads").Int(),
				Day:       day.Get("day").String(),
			})
		}
		stats.Kind = types.DownloadStatsRange
		stats.Range = &types.RangeStats{
			Start:     doc.Get("start").String(),
			End:       doc.Get("end").String(),
			Package:   doc.Get("package").String(),
			Downloads: series,
		}
	}
	return stats
}
