package entity

// CollectedItem is a single product link discovered on a listing page.
// URL is its identity.
type CollectedItem struct {
	URL         string `json:"url"`
	HasVariants bool   `json:"has_variants"`
}

// ProgressState is a snapshot of how much of the listing is rendered.
// Total is a heuristic when Estimated is set.
type ProgressState struct {
	Current   int  `json:"current"`
	Total     int  `json:"total"`
	Estimated bool `json:"estimated"`
}
