package database

import "gorm.io/gorm"

// tagAggregate is the distinct comma-joined tag name expression per dialect.
func tagAggregate(dialect string) string {
	if dialect == "postgres" {
		return "string_agg(DISTINCT t.name, ',')"
	}
	return "group_concat(DISTINCT t.name)"
}

// ListingViewSQL returns the CREATE VIEW statement for artwork_listings.
func ListingViewSQL(dialect string) string {
	return `CREATE VIEW artwork_listings AS
SELECT
	a.id,
	a.title,
	a.description,
	a.thumbnail_url,
	a.image_url,
	a.nsfw,
	a.user_id,
	u.display_name AS username,
	a.created_at,
	(SELECT ` + tagAggregate(dialect) + `
		FROM artwork_tags atg
		JOIN tags t ON t.id = atg.tag_id
		WHERE atg.artwork_id = a.id) AS tags,
	(SELECT COUNT(*) FROM comments c WHERE c.artwork_id = a.id) AS total_comments
FROM artworks a
JOIN users u ON u.id = a.user_id`
}

// CreateListingView creates the artwork_listings view for db's dialect.
func CreateListingView(db *gorm.DB) error {
	return db.Exec(ListingViewSQL(db.Dialector.Name())).Error
}
