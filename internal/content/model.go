package content

import "time"

// SkillCategory groups skills into a titled, display-ordered section.
// Deleting a category removes its skills with it.
type SkillCategory struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Title        string    `gorm:"column:title;size:190;not null" json:"title"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index:idx_skill_categories_order" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Skills []Skill `gorm:"foreignKey:CategoryID" json:"skills,omitempty"`
}

// TableName provides the explicit table binding for GORM.
func (SkillCategory) TableName() string {
	return "skill_categories"
}

// Skill is a single entry within a skill category, ordered inside its
// category scope.
type Skill struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	CategoryID   string    `gorm:"column:category_id;size:190;not null;index:idx_skills_category_order,priority:1" json:"category_id"`
	Name         string    `gorm:"column:name;size:190;not null" json:"name"`
	Level        int       `gorm:"column:level;not null;default:0" json:"level"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index:idx_skills_category_order,priority:2" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Skill) TableName() string {
	return "skills"
}

// Project is a portfolio project card.
type Project struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Title        string    `gorm:"column:title;size:190;not null" json:"title"`
	Summary      string    `gorm:"column:summary;size:512;not null" json:"summary"`
	Description  string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	ImageURL     string    `gorm:"column:image_url;size:512;not null;default:''" json:"image_url"`
	LiveURL      string    `gorm:"column:live_url;size:512;not null;default:''" json:"live_url"`
	RepoURL      string    `gorm:"column:repo_url;size:512;not null;default:''" json:"repo_url"`
	Tags         string    `gorm:"column:tags;size:512;not null;default:''" json:"tags"`
	Featured     bool      `gorm:"column:featured;not null;default:false" json:"featured"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index:idx_projects_order" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Project) TableName() string {
	return "projects"
}

// Education is a single schooling entry.
type Education struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	School       string    `gorm:"column:school;size:190;not null" json:"school"`
	Degree       string    `gorm:"column:degree;size:190;not null" json:"degree"`
	Field        string    `gorm:"column:field;size:190;not null;default:''" json:"field"`
	StartYear    int       `gorm:"column:start_year;not null;default:0" json:"start_year"`
	EndYear      int       `gorm:"column:end_year;not null;default:0" json:"end_year"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index:idx_education_order" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Education) TableName() string {
	return "education_entries"
}

// Experience is a single work-history entry. An empty EndDate means the
// position is current.
type Experience struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Company      string    `gorm:"column:company;size:190;not null" json:"company"`
	Role         string    `gorm:"column:role;size:190;not null" json:"role"`
	Description  string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	StartDate    string    `gorm:"column:start_date;size:32;not null;default:''" json:"start_date"`
	EndDate      string    `gorm:"column:end_date;size:32;not null;default:''" json:"end_date"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index:idx_experience_order" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Experience) TableName() string {
	return "experience_entries"
}

// Achievement is a single award or certification. Only the title is
// required; the description defaults to empty.
type Achievement struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Title        string    `gorm:"column:title;size:190;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text;not null;default:''" json:"description"`
	Year         int       `gorm:"column:year;not null;default:0" json:"year"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0;index:idx_achievements_order" json:"display_order"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Achievement) TableName() string {
	return "achievements"
}
