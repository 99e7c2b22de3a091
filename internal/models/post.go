package models

import (
	"strings"
	"time"

	"github.com/devblog-next/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post 博客文章表
type Post struct {
	ID            string      `gorm:"primarykey;type:varchar(36)" json:"id"`              // 主键（UUID）
	Title         string      `gorm:"type:varchar(255);not null" json:"title"`            // 标题
	Slug          string      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"` // 唯一标识
	Description   string      `gorm:"type:text" json:"description"`                       // 摘要
	Content       string      `gorm:"type:text;not null" json:"content"`                  // Markdown 正文
	FeaturedImage string      `gorm:"type:varchar(500)" json:"featured_image,omitempty"`  // 封面图
	Status        string      `gorm:"type:varchar(20);not null;index" json:"status"`      // draft/published/archived
	Tags          StringArray `gorm:"type:json" json:"tags"`                              // 标签
	ViewCount     int64       `gorm:"not null;default:0" json:"view_count"`               // 浏览量
	PublishedAt   *time.Time  `gorm:"index" json:"published_at,omitempty"`                // 首次发布时间
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time   `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate 补齐主键与默认状态
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if strings.TrimSpace(p.ID) == "" {
		p.ID = uuid.NewString()
	}
	if strings.TrimSpace(p.Status) == "" {
		p.Status = constants.PostStatusDraft
	}
	if p.Tags == nil {
		p.Tags = StringArray{}
	}
	return nil
}

// IsPublished 是否处于公开状态
func (p *Post) IsPublished() bool {
	return p != nil && p.Status == constants.PostStatusPublished
}
