package models

// ProjectStatus is the construction lifecycle of a project.
type ProjectStatus string

const (
	ProjectUpcoming          ProjectStatus = "UPCOMING"
	ProjectUnderConstruction ProjectStatus = "UNDER_CONSTRUCTION"
	ProjectReady             ProjectStatus = "READY"
	ProjectCompleted         ProjectStatus = "COMPLETED"
)

// ValidProjectStatus reports whether s is one of the known statuses.
func ValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectUpcoming, ProjectUnderConstruction, ProjectReady, ProjectCompleted:
		return true
	}
	return false
}

// Project is a developer project shown with a price range instead of a price.
type Project struct {
	ID          int64         `json:"id,omitempty"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	PriceRange  string        `json:"priceRange"`
	PriceBigint *int64        `json:"priceBigint"`
	Type        string        `json:"type"`
	Status      ProjectStatus `json:"status"`
	Images      []Image       `json:"images,omitempty"`
}

// Price returns the sortable project price, zero when unset.
func (p *Project) Price() int64 {
	if p.PriceBigint == nil {
		return 0
	}
	return *p.PriceBigint
}
