package smoke

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/okian/morsel/internal/domain/model"
	"github.com/okian/morsel/internal/view"
)

// Page element ids the chart page must carry.
const (
	headerMarker       = "<h1"
	chartMarker        = `id="sales-chart"`
	regionMarker       = `id="region-filter"`
	radioMarker        = `type="radio"`
	expectedRadioCount = 5
)

// verifyPage checks the page for its header, chart container and region
// control with one radio input per filter value.
func verifyPage(body string) error {
	if !strings.Contains(body, headerMarker) {
		return fmt.Errorf("page has no header")
	}
	if !strings.Contains(body, chartMarker) {
		return fmt.Errorf("page has no chart container")
	}
	start := strings.Index(body, regionMarker)
	if start < 0 {
		return fmt.Errorf("page has no region control")
	}
	control := body[start:]
	if end := strings.Index(control, "</fieldset>"); end >= 0 {
		control = control[:end]
	}
	if n := strings.Count(control, radioMarker); n != expectedRadioCount {
		return fmt.Errorf("region control has %d radio inputs, want %d", n, expectedRadioCount)
	}
	return nil
}

// verifyRegions checks the advertised filter values.
func verifyRegions(got []string) error {
	want := make([]string, 0, len(model.FilterValues()))
	for _, f := range model.FilterValues() {
		want = append(want, f.String())
	}
	if !slices.Equal(got, want) {
		return fmt.Errorf("regions = %v, want %v", got, want)
	}
	return nil
}

// verifyOrdering checks that dates strictly increase.
func verifyOrdering(name string, s model.DailySeries) error {
	for i := 1; i < len(s); i++ {
		if !s[i-1].Date.Before(s[i].Date) {
			return fmt.Errorf("%s series not strictly increasing at %s", name, s[i].Date)
		}
	}
	return nil
}

// verifyPartition checks that the four region series sum, date by date, to
// the unfiltered series. It only holds when the dataset carries no region
// outside the control, so callers pass the dataset's regions.
func verifyPartition(series map[model.RegionFilter]model.DailySeries, datasetRegions []string) (bool, error) {
	for _, r := range datasetRegions {
		if !slices.Contains(model.AllRegions, r) {
			return false, nil
		}
	}
	sums := make(map[model.Date]decimal.Decimal)
	for _, r := range model.AllRegions {
		for _, p := range series[model.RegionFilter(r)] {
			sums[p.Date] = sums[p.Date].Add(p.Total)
		}
	}
	all := series[model.FilterAll]
	if len(all) != len(sums) {
		return true, fmt.Errorf("all has %d dates, regions cover %d", len(all), len(sums))
	}
	for _, p := range all {
		if sum, ok := sums[p.Date]; !ok || !sum.Equal(p.Total) {
			return true, fmt.Errorf("on %s all = %s, regions sum to %s", p.Date, p.Total, sum)
		}
	}
	return true, nil
}

// verifyFigure checks the figure against its series and the reference marker.
func verifyFigure(fig view.Figure, series model.DailySeries, reference string) error {
	if len(fig.Data) != 1 {
		return fmt.Errorf("figure has %d traces, want 1", len(fig.Data))
	}
	trace := fig.Data[0]
	if len(trace.X) != len(series) || len(trace.Y) != len(series) {
		return fmt.Errorf("trace has %d/%d points, series has %d", len(trace.X), len(trace.Y), len(series))
	}
	for i, p := range series {
		if trace.X[i] != p.Date.String() || !trace.Y[i].Equal(p.Total) {
			return fmt.Errorf("trace point %d = (%s, %s), want (%s, %s)", i, trace.X[i], trace.Y[i], p.Date, p.Total)
		}
	}
	if len(fig.Layout.Shapes) == 0 || fig.Layout.Shapes[0].X0 != reference {
		return fmt.Errorf("figure has no reference line at %s", reference)
	}
	if len(fig.Layout.Annotations) == 0 || fig.Layout.Annotations[0].X != reference {
		return fmt.Errorf("figure has no reference annotation at %s", reference)
	}
	return nil
}
