package analytics

import (
	"courtpulse/internal/models"

	"github.com/rs/zerolog"
)

// Options carries the recognized query configuration for the four
// analytics queries. Zero values fall back to sane defaults where one
// exists; structurally invalid values are rejected with ErrBadOptions.
type Options struct {
	PeriodMode      PeriodMode `json:"period_mode"`
	SelectedMonth   int        `json:"selected_month"` // zero-based
	SelectedYear    int        `json:"selected_year"`
	FieldFilter     []string   `json:"field_filter"`
	CourtTypeFilter []string   `json:"court_type_filter"`
	BucketMode      BucketMode `json:"bucket_mode"`
	GroupBy         GroupDim   `json:"group_by"`
	Page            int        `json:"page"`
	PageSize        int        `json:"page_size"`
	OpenHour        int        `json:"open_hour"`  // hourly chart bounds,
	CloseHour       int        `json:"close_hour"` // both zero = default hours
}

func (o Options) withDefaults() Options {
	if o.PeriodMode == "" {
		o.PeriodMode = PeriodMonthly
	}
	if o.BucketMode == "" {
		o.BucketMode = BucketDaily
	}
	if o.GroupBy == "" {
		o.GroupBy = GroupByField
	}
	if o.Page == 0 {
		o.Page = 1
	}
	if o.PageSize == 0 {
		o.PageSize = models.DefaultPageSize
	}
	return o
}

// filter translates the selected period into attribute predicates. The
// hourly/daily/monthly charts and the monthly dashboards look at one
// month; yearly views look at one year.
func (o Options) filter(monthScoped bool) Filter {
	f := Filter{
		Fields:     toSet(o.FieldFilter),
		CourtTypes: toSet(o.CourtTypeFilter),
	}
	if o.SelectedYear > 0 {
		f.Year = yearOf(o.SelectedYear)
		if monthScoped {
			f.MonthIndex = monthOf(o.SelectedMonth)
		}
	}
	return f
}

// Engine answers analytics queries for one owner against an immutable
// snapshot of courts. It holds no mutable state; every call re-derives
// its result from the booking collection it is handed, so concurrent and
// redundant invocations are safe and idempotent.
type Engine struct {
	idx    CourtIndex
	owned  map[int64]struct{}
	logger zerolog.Logger
}

func New(courts []models.Court, ownerID int64, logger *zerolog.Logger) *Engine {
	idx := NewCourtIndex(courts)
	e := &Engine{
		idx:   idx,
		owned: idx.OwnedBy(ownerID),
	}
	if logger != nil {
		e.logger = logger.With().Str("component", "analytics").Int64("owner_id", ownerID).Logger()
	} else {
		e.logger = zerolog.Nop()
	}
	return e
}

// OwnsCourts reports whether the owner has any courts at all. An empty
// ownership is not an error; every query just returns zeros.
func (e *Engine) OwnsCourts() bool {
	return len(e.owned) > 0
}

// BucketSeries answers "how many bookings per bucket" for the chart.
func (e *Engine) BucketSeries(bookings []models.Booking, opts Options) ([]models.Bucket, Quality, error) {
	opts = opts.withDefaults()

	monthScoped := opts.BucketMode != BucketYearly
	filtered, quality := opts.filter(monthScoped).Apply(bookings, e.owned, e.idx)
	e.reportQuality("bucket_series", quality)

	series, err := CountSeries(filtered, opts)
	if err != nil {
		return nil, quality, err
	}
	return series, quality, nil
}

// PeriodMetrics answers the four comparison cards. Period scoping is done
// by the comparator itself, so only the attribute filters apply here.
func (e *Engine) PeriodMetrics(bookings []models.Booking, opts Options) ([]models.MetricCard, Quality, error) {
	opts = opts.withDefaults()

	f := Filter{Fields: toSet(opts.FieldFilter), CourtTypes: toSet(opts.CourtTypeFilter)}
	filtered, quality := f.Apply(bookings, e.owned, e.idx)

	priced, pq := PriceAll(filtered, e.idx)
	quality.merge(pq)
	e.reportQuality("period_metrics", quality)

	cards, err := PeriodMetrics(priced, opts.PeriodMode, opts.SelectedMonth, opts.SelectedYear)
	if err != nil {
		return nil, quality, err
	}
	return cards, quality, nil
}

// ProportionSeries answers the revenue-share breakdown.
func (e *Engine) ProportionSeries(bookings []models.Booking, opts Options) ([]models.ProportionSlice, Quality, error) {
	opts = opts.withDefaults()

	filtered, quality := opts.filter(opts.PeriodMode == PeriodMonthly).Apply(bookings, e.owned, e.idx)

	priced, pq := PriceAll(filtered, e.idx)
	quality.merge(pq)
	e.reportQuality("proportion_series", quality)

	slices, err := ProportionSeries(priced, opts.GroupBy)
	if err != nil {
		return nil, quality, err
	}
	return slices, quality, nil
}

// HistoryPage answers one page of the date-descending booking history.
func (e *Engine) HistoryPage(bookings []models.Booking, opts Options) (models.HistoryPage, Quality, error) {
	opts = opts.withDefaults()

	filtered, quality := opts.filter(opts.PeriodMode == PeriodMonthly).Apply(bookings, e.owned, e.idx)

	priced, pq := PriceAll(filtered, e.idx)
	quality.merge(pq)
	e.reportQuality("history_page", quality)

	page, err := BuildHistoryPage(priced, opts.Page, opts.PageSize)
	if err != nil {
		return models.HistoryPage{}, quality, err
	}
	return page, quality, nil
}

func (e *Engine) reportQuality(query string, q Quality) {
	if q.Total() == 0 {
		return
	}
	e.logger.Warn().
		Str("query", query).
		Int("unresolved_court", q.UnresolvedCourt).
		Int("incomplete_config", q.IncompleteConfig).
		Int("invalid_range", q.InvalidRange).
		Msg("skipped malformed records during aggregation")
}
