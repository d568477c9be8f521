package models

// Post represents a blog entry. Image holds the relative path of an uploaded
// file under the static upload prefix, or nil when the post has no image.
type Post struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string  `json:"title" gorm:"type:varchar(255)"`
	Description string  `json:"description" gorm:"type:text"`
	Image       *string `json:"image" gorm:"type:varchar(512)"`
}
