package dto

// CatalogQuery holds the search and ordering parameters of catalog listings.
type CatalogQuery struct {
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
}

// ColorQuery selects countries whose flag holds a colour close to Color.
// Proximity is a CIE Lab distance on a 0-100 scale.
type ColorQuery struct {
	Color     string  `form:"color" binding:"required"`
	Proximity float64 `form:"proximity" binding:"omitempty,min=0,max=100"`
}
