package recommend

// Filter narrows the candidate games for a pick.
type Filter struct {
	// Genres must contain at least one non-blank entry.
	Genres []string
	// Platform is "pc", "browser", "all" or empty.
	Platform string
	// RAMGB is the caller's memory in GB; nil skips the compatibility check.
	RAMGB *int
}

// Recommendation is the result of a pick.
type Recommendation struct {
	Title           string `json:"title"`
	LinkFromAPISite string `json:"link_from_api_site"`
	Message         string `json:"message"`
}

// HistoryQuery selects a page of past recommendations.
type HistoryQuery struct {
	PageSize   int
	PageNumber int
	SortBy     string
	SortOrder  string
}

// HistoryItem is the projection of a stored record shown in history.
type HistoryItem struct {
	Title            string `json:"title"`
	Genre            string `json:"genre"`
	RecommendedTimes int    `json:"recommended_times"`
}

// HistoryPage is one page of history with pagination metadata.
type HistoryPage struct {
	Items           []HistoryItem `json:"items"`
	TotalCount      int64         `json:"total_count"`
	PageNumber      int           `json:"page_number"`
	PageSize        int           `json:"page_size"`
	TotalPages      int           `json:"total_pages"`
	HasNextPage     bool          `json:"has_next_page"`
	HasPreviousPage bool          `json:"has_previous_page"`
}
