package structs

type VisitorStats struct {
	TodayCount int64 `json:"today_count" bun:"today_count"`
	TotalCount int64 `json:"total_count" bun:"total_count"`
}

type UploadResult struct {
	Images   []string `json:"images"`
	Uploaded int      `json:"uploaded"`
	Skipped  int      `json:"skipped"`
}

type RemoveImageRequest struct {
	Images []string `json:"images"`
	Index  int      `json:"index" validate:"gte=0"`
}

type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type SeedResult struct {
	Categories    int      `json:"categories"`
	SubCategories int      `json:"sub_categories"`
	Products      int      `json:"products"`
	Skipped       []string `json:"skipped,omitempty"`
}
