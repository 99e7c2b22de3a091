package constants

// 文章状态常量
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
	PostStatusArchived  = "archived"
)

// 队列名称常量
const (
	QueueDefault = "default"
	QueueLow     = "low"
)

// 异步任务类型常量
const (
	TaskPostViewIncrement = "post:view_increment"
)

// 浏览量记录模式
const (
	ViewRecorderAsync = "async"
	ViewRecorderQueue = "queue"
)

// 上传场景常量
const (
	UploadScenePost   = "post"
	UploadSceneEditor = "editor"
	UploadSceneCommon = "common"
)
