package blog

import "time"

// Post is a blog entry. Unpublished posts are visible only through the
// admin listing.
type Post struct {
	ID                 string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Title              string    `gorm:"column:title;size:190;not null" json:"title"`
	Slug               string    `gorm:"column:slug;size:190;not null;uniqueIndex:idx_posts_slug" json:"slug"`
	Excerpt            string    `gorm:"column:excerpt;size:512;not null;default:''" json:"excerpt"`
	Body               string    `gorm:"column:body;type:text;not null" json:"body"`
	CoverImageURL      string    `gorm:"column:cover_image_url;size:512;not null;default:''" json:"cover_image_url"`
	CategoryID         string    `gorm:"column:category_id;size:190;not null;default:'';index" json:"category_id"`
	Published          bool      `gorm:"column:published;not null;default:false;index" json:"published"`
	PublishedAtSeconds int64     `gorm:"column:published_at_s;not null;default:0" json:"published_at_s"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Tags []Tag `gorm:"many2many:post_tags" json:"tags"`
}

// TableName provides the explicit table binding for GORM.
func (Post) TableName() string {
	return "posts"
}

// Tag labels posts; shared across posts through the post_tags join table.
type Tag struct {
	ID        string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Name      string    `gorm:"column:name;size:190;not null;uniqueIndex:idx_tags_name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName provides the explicit table binding for GORM.
func (Tag) TableName() string {
	return "tags"
}

// Category is the single blog category a post may belong to.
type Category struct {
	ID        string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Name      string    `gorm:"column:name;size:190;not null;uniqueIndex:idx_blog_categories_name" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TableName provides the explicit table binding for GORM.
func (Category) TableName() string {
	return "blog_categories"
}
