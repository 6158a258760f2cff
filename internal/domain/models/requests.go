package models

// Requests for the HTTP endpoints. Defined in domain for consistency and reuse.

type BarsRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=10"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
	Limit  int    `query:"limit" json:"limit" default:"10000" validate:"gte=1,lte=50000"`
}

type TickersRequest struct {
	Page    int `query:"page" json:"page" default:"1" validate:"gte=1"`
	PerPage int `query:"per_page" json:"per_page" default:"100" validate:"gte=1,lte=1000"`
}

type AnalysisRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=10"`
	From   string `query:"from" json:"from"`
	To     string `query:"to" json:"to"`
}

type HeatmapRequest struct {
	Ticker string `param:"ticker" json:"ticker" validate:"required,max=10"`
	Bucket string `query:"bucket" json:"bucket" default:"month" validate:"oneof=month quarter weekday month_end"`
}
