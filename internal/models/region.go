package models

// Region represents one node of the wilayah hierarchy (province down to
// village, levels 1..4). The dataset is static reference data.
type Region struct {
	Code       string  `db:"code" json:"code"`
	Name       string  `db:"name" json:"name"`
	ParentCode *string `db:"parent_code" json:"parent_code,omitempty"`
	Level      int     `db:"level" json:"level"`
}

// RegionFilter narrows region listings.
type RegionFilter struct {
	Level      int
	ParentCode string
	Search     string
}
