package saveditem

// SavedItem links a user to a product they bookmarked. The pair is unique.
type SavedItem struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	ProductID int    `json:"product_id"`
	CreatedAt string `json:"created_at,omitempty"`
}
