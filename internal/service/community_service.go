package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"stareduca_backend/pkg/logger"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PostsPerPage      = 10
	CommentsPerPage   = 20
	MaxPageLimit      = 50
	MaxPostLength     = 500
	MaxCommentLength  = 300
	MaxPostsPerDay    = 3
)

type CommunityService struct {
	PostRepo     *repository.PostRepository
	CommentRepo  *repository.CommentRepository
	ReactionRepo *repository.ReactionRepository
	StudentRepo  *repository.StudentRepository
	Notification *repository.NotificationRepository
	Gamification *GamificationService
}

func NewCommunityService(
	postRepo *repository.PostRepository,
	commentRepo *repository.CommentRepository,
	reactionRepo *repository.ReactionRepository,
	studentRepo *repository.StudentRepository,
	notificationRepo *repository.NotificationRepository,
	gamification *GamificationService,
) *CommunityService {
	return &CommunityService{
		PostRepo:     postRepo,
		CommentRepo:  commentRepo,
		ReactionRepo: reactionRepo,
		StudentRepo:  studentRepo,
		Notification: notificationRepo,
		Gamification: gamification,
	}
}

type PostAuthor struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
}

type ReactionSummary struct {
	Like  int `json:"like"`
	Heart int `json:"heart"`
	Idea  int `json:"idea"`
	Party int `json:"party"`
	Total int `json:"total"`
}

func (s *ReactionSummary) add(reactionType string) {
	switch reactionType {
	case model.ReactionLike:
		s.Like++
	case model.ReactionHeart:
		s.Heart++
	case model.ReactionIdea:
		s.Idea++
	case model.ReactionParty:
		s.Party++
	default:
		return
	}
	s.Total++
}

type PostView struct {
	ID              string          `json:"id"`
	StudentID       string          `json:"studentId"`
	Content         string          `json:"content"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	Author          PostAuthor      `json:"author"`
	UserReaction    string          `json:"userReaction,omitempty"`
	ReactionSummary ReactionSummary `json:"reactionSummary"`
	CommentCount    int             `json:"commentCount"`
	IsOwnPost       bool            `json:"isOwnPost"`
}

type PostPage struct {
	Posts   []PostView `json:"posts"`
	HasMore bool       `json:"hasMore"`
}

type CommentView struct {
	ID        string     `json:"id"`
	PostID    string     `json:"postId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Author    PostAuthor `json:"author"`
}

type CommentPage struct {
	Comments []CommentView `json:"comments"`
	HasMore  bool          `json:"hasMore"`
}

type ReactionDetail struct {
	StudentID string `json:"studentId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Level     int    `json:"level"`
	LevelName string `json:"levelName"`
	Type      string `json:"type"`
}

type ReactionPage struct {
	Reactions []ReactionDetail `json:"reactions"`
	Summary   ReactionSummary  `json:"summary"`
}

func authorFromStudent(s *model.Student) PostAuthor {
	return PostAuthor{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		AvatarURL: s.AvatarURL,
		Level:     s.CurrentLevel,
		LevelName: LevelName(s.CurrentLevel),
	}
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// GetPosts 动态流按时间倒序分页，一次查询聚合全部反应
func (s *CommunityService) GetPosts(studentID string, offset, limit int) (*PostPage, error) {
	limit = clampLimit(limit, PostsPerPage)
	if offset < 0 {
		offset = 0
	}

	posts, err := s.PostRepo.FindWithPagination(offset, limit)
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	reactions, err := s.ReactionRepo.FindByPosts(postIDs)
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]*ReactionSummary, len(posts))
	userReactions := make(map[string]string)
	for _, id := range postIDs {
		summaries[id] = &ReactionSummary{}
	}
	for _, r := range reactions {
		if summary := summaries[r.PostID]; summary != nil {
			summary.add(r.Type)
		}
		if r.StudentID == studentID {
			userReactions[r.PostID] = r.Type
		}
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{
			ID:              p.ID,
			StudentID:       p.StudentID,
			Content:         p.Content,
			ImageURL:        p.ImageURL,
			CreatedAt:       p.CreatedAt,
			Author:          authorFromStudent(&p.Student),
			UserReaction:    userReactions[p.ID],
			ReactionSummary: *summaries[p.ID],
			CommentCount:    p.CommentCount,
			IsOwnPost:       p.StudentID == studentID,
		}
	}

	return &PostPage{Posts: views, HasMore: hasMore}, nil
}

type CreatePostResult struct {
	Post      PostView `json:"post"`
	XpAwarded int      `json:"xpAwarded"`
}

// CreatePost 每人每天最多 3 条，发帖送 10 点经验
func (s *CommunityService) CreatePost(studentID, content, imageURL, timezone string) (*CreatePostResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("el contenido no puede estar vacío")
	}
	if len([]rune(content)) > MaxPostLength {
		return nil, fmt.Errorf("el contenido no puede exceder %d caracteres", MaxPostLength)
	}

	count, err := s.PostRepo.CountByStudentSince(studentID, startOfUTCDay())
	if err != nil {
		return nil, err
	}
	if count >= MaxPostsPerDay {
		return nil, util.ErrDailyPostLimit
	}

	post := &model.Post{
		StudentID: studentID,
		Content:   content,
		ImageURL:  imageURL,
	}
	if err := s.PostRepo.Create(post); err != nil {
		return nil, err
	}

	xpAwarded := 0
	if _, err := s.Gamification.AwardXP(studentID, AwardRequest{
		Reason: model.XpReasonPostCreated,
	}, timezone); err != nil {
		logger.Log.Warn("post XP award failed", zap.String("studentId", studentID), zap.Error(err))
	} else {
		xpAwarded = xpReasonAmounts[model.XpReasonPostCreated]
	}

	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}

	return &CreatePostResult{
		Post: PostView{
			ID:        post.ID,
			StudentID: post.StudentID,
			Content:   post.Content,
			ImageURL:  post.ImageURL,
			CreatedAt: post.CreatedAt,
			Author:    authorFromStudent(student),
			IsOwnPost: true,
		},
		XpAwarded: xpAwarded,
	}, nil
}

// UpdatePost 只有作者本人能编辑
func (s *CommunityService) UpdatePost(studentID, postID, content string) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("el contenido no puede estar vacío")
	}
	if len([]rune(content)) > MaxPostLength {
		return nil, fmt.Errorf("el contenido no puede exceder %d caracteres", MaxPostLength)
	}

	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}
	if post.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}

	post.Content = content
	if err := s.PostRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost 连同反应和评论一起删除
func (s *CommunityService) DeletePost(studentID, postID string) error {
	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrPostNotFound
		}
		return err
	}
	if post.StudentID != studentID {
		return util.ErrPermissionDenied
	}
	return s.PostRepo.DeleteCascade(postID)
}

// React 反应写入：已有反应时原地换类型，新反应才计数和通知。
// 返回值为 true 表示新建。
func (s *CommunityService) React(studentID, postID, reactionType string) (bool, error) {
	if !model.IsValidReactionType(reactionType) {
		return false, util.ErrInvalidReactionType
	}

	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, util.ErrPostNotFound
		}
		return false, err
	}

	existing, err := s.ReactionRepo.FindByPostAndStudent(postID, studentID)
	if err == nil {
		if existing.Type != reactionType {
			if err := s.ReactionRepo.UpdateType(existing.ID, reactionType); err != nil {
				return false, err
			}
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if err := s.ReactionRepo.Create(&model.Reaction{
		PostID:    postID,
		StudentID: studentID,
		Type:      reactionType,
	}); err != nil {
		return false, err
	}
	if err := s.PostRepo.IncrementReactionCount(postID, 1); err != nil {
		return false, err
	}

	if post.StudentID != studentID {
		s.notifyPostOwner(post.StudentID, studentID, model.NotificationReaction,
			"Nueva reacción", "reaccionó a tu publicación",
			map[string]interface{}{"postId": postID, "reactionType": reactionType})
	}

	return true, nil
}

// RemoveReaction 撤销本人的反应
func (s *CommunityService) RemoveReaction(studentID, postID string) error {
	existing, err := s.ReactionRepo.FindByPostAndStudent(postID, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrReactionNotFound
		}
		return err
	}

	if err := s.ReactionRepo.Delete(existing.ID); err != nil {
		return err
	}
	return s.PostRepo.IncrementReactionCount(postID, -1)
}

// GetReactions 反应明细加汇总，可按类型过滤
func (s *CommunityService) GetReactions(postID, typeFilter string) (*ReactionPage, error) {
	if _, err := s.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}
	if typeFilter != "" && !model.IsValidReactionType(typeFilter) {
		typeFilter = ""
	}

	reactions, err := s.ReactionRepo.FindByPost(postID, typeFilter)
	if err != nil {
		return nil, err
	}

	page := &ReactionPage{Reactions: make([]ReactionDetail, len(reactions))}
	for i, r := range reactions {
		page.Summary.add(r.Type)
		page.Reactions[i] = ReactionDetail{
			StudentID: r.StudentID,
			FirstName: r.Student.FirstName,
			LastName:  r.Student.LastName,
			AvatarURL: r.Student.AvatarURL,
			Level:     r.Student.CurrentLevel,
			LevelName: LevelName(r.Student.CurrentLevel),
			Type:      r.Type,
		}
	}

	return page, nil
}

// GetComments 评论按时间正序分页
func (s *CommunityService) GetComments(postID string, offset, limit int) (*CommentPage, error) {
	if _, err := s.PostRepo.FindByID(postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}

	limit = clampLimit(limit, CommentsPerPage)
	if offset < 0 {
		offset = 0
	}

	comments, err := s.CommentRepo.FindByPost(postID, offset, limit)
	if err != nil {
		return nil, err
	}

	hasMore := len(comments) > limit
	if hasMore {
		comments = comments[:limit]
	}

	views := make([]CommentView, len(comments))
	for i, c := range comments {
		views[i] = CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			Author:    authorFromStudent(&c.Student),
		}
	}

	return &CommentPage{Comments: views, HasMore: hasMore}, nil
}

// CreateComment 评论帖子并通知作者
func (s *CommunityService) CreateComment(studentID, postID, content string) (*CommentView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("el comentario no puede estar vacío")
	}
	if len([]rune(content)) > MaxCommentLength {
		return nil, fmt.Errorf("el comentario no puede exceder %d caracteres", MaxCommentLength)
	}

	post, err := s.PostRepo.FindByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPostNotFound
		}
		return nil, err
	}

	comment := &model.Comment{
		PostID:    postID,
		StudentID: studentID,
		Content:   content,
	}
	if err := s.CommentRepo.Create(comment); err != nil {
		return nil, err
	}
	if err := s.PostRepo.IncrementCommentCount(postID, 1); err != nil {
		return nil, err
	}

	student, err := s.StudentRepo.FindByID(studentID)
	if err != nil {
		return nil, err
	}

	if post.StudentID != studentID {
		s.notifyPostOwner(post.StudentID, studentID, model.NotificationComment,
			"Nuevo comentario", "comentó en tu publicación",
			map[string]interface{}{"postId": postID, "commentId": comment.ID})
	}

	return &CommentView{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		Author:    authorFromStudent(student),
	}, nil
}

func (s *CommunityService) notifyPostOwner(ownerID, actorID, notifType, title, action string, data map[string]interface{}) {
	actor, err := s.StudentRepo.FindByID(actorID)
	if err != nil {
		return
	}
	actorName := strings.TrimSpace(actor.FirstName + " " + actor.LastName)
	payload, _ := json.Marshal(data)
	if err := s.Notification.Create(&model.Notification{
		StudentID: ownerID,
		Type:      notifType,
		Title:     title,
		Message:   actorName + " " + action,
		Data:      datatypes.JSON(payload),
	}); err != nil {
		logger.Log.Warn("community notification failed", zap.String("ownerId", ownerID), zap.Error(err))
	}
}
