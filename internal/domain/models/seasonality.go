package models

// BucketKind selects the calendar grouping for seasonality aggregation.
type BucketKind string

const (
	BucketMonth    BucketKind = "month"
	BucketQuarter  BucketKind = "quarter"
	BucketWeekday  BucketKind = "weekday"
	BucketMonthEnd BucketKind = "month_end"
)

// IsValidBucketKind reports whether k is a supported grouping.
func IsValidBucketKind(k BucketKind) bool {
	switch k {
	case BucketMonth, BucketQuarter, BucketWeekday, BucketMonthEnd:
		return true
	default:
		return false
	}
}

// SeasonalPattern aggregates daily returns that fall into one calendar
// bucket. Buckets without observations are never emitted.
type SeasonalPattern struct {
	Bucket       int     `json:"bucket"`
	Label        string  `json:"label"`
	AvgReturn    float64 `json:"avg_return"`
	MedianReturn float64 `json:"median_return"`
	StdReturn    float64 `json:"std_return"`
	PositiveDays int     `json:"positive_days"`
	TotalDays    int     `json:"total_days"`
	WinRate      float64 `json:"win_rate"`
	AvgVolume    float64 `json:"avg_volume"`
}

// HeatmapMatrix is the sparse year -> bucket -> average-return map.
// A (year, bucket) cell with zero observations is absent, never zero.
type HeatmapMatrix map[int]map[int]float64

// SeasonalExtreme identifies the best or worst bucket of a grouping.
type SeasonalExtreme struct {
	Bucket    int     `json:"bucket"`
	Label     string  `json:"label"`
	AvgReturn float64 `json:"avg_return"`
}

// SeasonalSummary ranks the buckets of one grouping and labels how dispersed
// their average returns are.
type SeasonalSummary struct {
	BestBucket  SeasonalExtreme `json:"best_bucket"`
	WorstBucket SeasonalExtreme `json:"worst_bucket"`
	Strength    string          `json:"seasonality_strength"` // weak, moderate, strong
}
