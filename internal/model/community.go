package model

// 社区反应类型
const (
	ReactionLike  = "like"
	ReactionHeart = "heart"
	ReactionIdea  = "idea"
	ReactionParty = "party"
)

func IsValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionHeart, ReactionIdea, ReactionParty:
		return true
	}
	return false
}

// Post 社区动态，纯文本加可选配图
// swagger:model
type Post struct {
	UUIDBase
	StudentID     string  `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Student       Student `gorm:"foreignKey:StudentID" json:"-"`
	Content       string  `gorm:"type:varchar(500);not null" json:"content"`
	ImageURL      string  `gorm:"type:varchar(500)" json:"imageUrl,omitempty"`
	ReactionCount int     `gorm:"not null;default:0" json:"reactionCount"`
	CommentCount  int     `gorm:"not null;default:0" json:"commentCount"`
}

func (Post) TableName() string {
	return "posts"
}

// Comment 帖子评论，单层结构
// swagger:model
type Comment struct {
	UUIDBase
	PostID    string  `gorm:"type:varchar(36);index;not null" json:"postId"`
	StudentID string  `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Student   Student `gorm:"foreignKey:StudentID" json:"-"`
	Content   string  `gorm:"type:varchar(300);not null" json:"content"`
}

func (Comment) TableName() string {
	return "comments"
}

// Reaction 每个学生对一个帖子最多一条，换类型时原地更新
// swagger:model
type Reaction struct {
	UUIDBase
	PostID    string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_reaction_post_student" json:"postId"`
	StudentID string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_reaction_post_student" json:"studentId"`
	Student   Student `gorm:"foreignKey:StudentID" json:"-"`
	Type      string  `gorm:"type:varchar(10);not null" json:"type"`
}

func (Reaction) TableName() string {
	return "reactions"
}
