package analytics

// Overview summarizes the whole saved-session collection.
type Overview struct {
	SessionCount      int            `json:"session_count"`
	TotalSpend        float64        `json:"total_spend"`
	AveragePerSession float64        `json:"average_per_session"`
	DistinctMembers   int            `json:"distinct_members"`
	LocationVisits    map[string]int `json:"location_visits"`
	FirstSession      string         `json:"first_session,omitempty"`
	LastSession       string         `json:"last_session,omitempty"`
}

// TrendPoint is one calendar-period bucket in a time series.
type TrendPoint struct {
	Period    string  `json:"period"`
	Sessions  int     `json:"sessions"`
	TotalCost float64 `json:"total_cost"`
}

// Trends groups sessions into daily, weekly and monthly buckets.
type Trends struct {
	Daily   []TrendPoint `json:"daily"`
	Weekly  []TrendPoint `json:"weekly"`
	Monthly []TrendPoint `json:"monthly"`
}

// MemberStats is the per-member rollup across sessions.
type MemberStats struct {
	Name         string  `json:"name"`
	Sessions     int     `json:"sessions"`
	TotalSpent   float64 `json:"total_spent"`
	TotalAdvance float64 `json:"total_advance"`
	AverageSpent float64 `json:"average_spent"`
}

// LocationStats is the per-location rollup across sessions.
type LocationStats struct {
	Location    string  `json:"location"`
	Visits      int     `json:"visits"`
	TotalCost   float64 `json:"total_cost"`
	AverageCost float64 `json:"average_cost"`
}

// ItemStats is the per-item rollup across sessions, including the observed
// price range and how many distinct sessions the item appeared in.
type ItemStats struct {
	Name         string  `json:"name"`
	Occurrences  int     `json:"occurrences"`
	TotalSpent   float64 `json:"total_spent"`
	AveragePrice float64 `json:"average_price"`
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
	Sessions     int     `json:"sessions"`
}

// CostBucket is one equal-width bucket of the session cost histogram.
type CostBucket struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Report is the full analytics output.
type Report struct {
	Overview  Overview        `json:"overview"`
	Trends    Trends          `json:"trends"`
	Members   []MemberStats   `json:"members"`
	Locations []LocationStats `json:"locations"`
	Items     []ItemStats     `json:"items"`
	Costs     []CostBucket    `json:"costs"`
}
