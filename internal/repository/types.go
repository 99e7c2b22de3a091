package repository

// PostListFilter 查询文章列表的过滤条件
type PostListFilter struct {
	Page     int
	PageSize int
	Query    string   // 标题/摘要/正文模糊匹配
	Tags     []string // 标签交集匹配（任一命中即可）
	Status   string   // 为空表示不限状态
	OrderBy  string
}
