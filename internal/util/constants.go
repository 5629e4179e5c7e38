package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeVideo = "video/"
	MimeImage = "image/"

	MaxImageUploadBytes = 5 * 1024 * 1024
)

var (
	// 社区图片只接受浏览器可直接渲染的格式
	AllowedImageMimeTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

	AllowedVideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv", ".wmv", ".flv", ".webm"}
)
