package model

// Student 小程序内的学生档案，身份由 Hub Central 统一管理
// swagger:model
type Student struct {
	UUIDBase
	ExternalID       string `gorm:"type:varchar(100);uniqueIndex;not null" json:"externalId"`
	Code             string `gorm:"type:varchar(50);not null" json:"code"`
	FirstName        string `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName         string `gorm:"type:varchar(100)" json:"lastName"`
	Email            string `gorm:"type:varchar(150)" json:"email,omitempty"`
	FamilyID         string `gorm:"type:varchar(100);index" json:"familyId,omitempty"`
	AvatarURL        string `gorm:"type:varchar(500)" json:"avatarUrl,omitempty"`
	XpTotal          int    `gorm:"not null;default:0" json:"xpTotal"`
	CurrentLevel     int    `gorm:"not null;default:1" json:"currentLevel"`
	CurrentStreak    int    `gorm:"not null;default:0" json:"currentStreak"`
	MaxStreak        int    `gorm:"not null;default:0" json:"maxStreak"`
	LastActivityDate string `gorm:"type:varchar(10)" json:"lastActivityDate,omitempty"`
}

func (Student) TableName() string {
	return "students"
}
