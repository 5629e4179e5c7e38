package model

// Course 课程，按模块和课时分层组织
// swagger:model
type Course struct {
	UUIDBase
	Title        string   `gorm:"type:varchar(200);not null" json:"title"`
	Slug         string   `gorm:"type:varchar(200);uniqueIndex" json:"slug"`
	Description  string   `gorm:"type:text" json:"description"`
	Category     string   `gorm:"type:varchar(50);index" json:"category"`
	ThumbnailURL string   `gorm:"type:varchar(500)" json:"thumbnailUrl,omitempty"`
	XpReward     int      `gorm:"not null;default:0" json:"xpReward"`
	IsPublished  bool     `gorm:"not null;default:false" json:"isPublished"`
	Modules      []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model
type Module struct {
	UUIDBase
	CourseID   string   `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title      string   `gorm:"type:varchar(200);not null" json:"title"`
	OrderIndex int      `gorm:"not null;default:0" json:"orderIndex"`
	Lessons    []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// swagger:model
type Lesson struct {
	UUIDBase
	ModuleID        string `gorm:"type:varchar(36);index;not null" json:"moduleId"`
	Title           string `gorm:"type:varchar(200);not null" json:"title"`
	VideoURL        string `gorm:"type:varchar(500)" json:"videoUrl,omitempty"`
	DurationMinutes int    `gorm:"not null;default:0" json:"durationMinutes"`
	XpReward        int    `gorm:"not null;default:0" json:"xpReward"`
	OrderIndex      int    `gorm:"not null;default:0" json:"orderIndex"`
}

func (Lesson) TableName() string {
	return "lessons"
}
