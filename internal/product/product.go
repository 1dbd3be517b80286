package product

// Product maps to the `products` table. Stock is only ever changed through
// the ledger helpers in stock.go.
type Product struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  int     `json:"category_id"`
	BrandID     *int    `json:"brand_id,omitempty"`
	Image       *string `json:"image,omitempty"`
	Featured    bool    `json:"featured"`
	ComingSoon  bool    `json:"coming_soon"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// ListOptions controls filtering, sorting and pagination of the catalog.
type ListOptions struct {
	Search     string
	Featured   bool
	Upcoming   bool
	CategoryID int
	BrandID    int
	SortBy     string
	SortDir    string
	Page       int
	PerPage    int
}

// Page is the paginated catalog response shape.
type Page struct {
	Data        []Product `json:"data"`
	Total       int       `json:"total"`
	PerPage     int       `json:"per_page"`
	CurrentPage int       `json:"current_page"`
	LastPage    int       `json:"last_page"`
}
