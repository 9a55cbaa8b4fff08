package models

// WardTrend is the supply series for a single ward
type WardTrend struct {
	Count    int            `json:"count"`
	Quarters map[string]int `json:"quarters"`
}

// SupplyTrend aggregates listing supply by ward and calendar quarter.
// Wards lists the ward keys in sorted order so report output is
// deterministic; Quarters is the sorted set of all quarter labels
// observed anywhere in the batch.
type SupplyTrend struct {
	ByWard     map[string]WardTrend `json:"by_ward"`
	Wards      []string             `json:"wards"`
	Quarters   []string             `json:"quarters"`
	TotalCount int                  `json:"total_count"`
}
