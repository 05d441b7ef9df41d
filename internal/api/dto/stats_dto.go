package dto

import "time"

// PostStatusStatDTO 单个状态的文章统计
type PostStatusStatDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
	Views  int64  `json:"views"`
	Likes  int64  `json:"likes"`
}

// RecentPostDTO 最近文章摘要
type RecentPostDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PostStatsDTO 文章总体统计
type PostStatsDTO struct {
	Total    int64                `json:"total"`
	ByStatus []*PostStatusStatDTO `json:"by_status"`
	Recent   []*RecentPostDTO     `json:"recent"`
}

// CategoryStatDTO 单个分类的发布统计
type CategoryStatDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Posts int64  `json:"posts"`
	Views int64  `json:"views"`
}

// CategoryStatsDTO 分类统计
type CategoryStatsDTO struct {
	Categories  []*CategoryStatDTO `json:"categories"`
	MostPopular *CategoryStatDTO   `json:"most_popular,omitempty"`
}

// TagStatDTO 单个标签的发布统计
type TagStatDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Posts int64  `json:"posts"`
}

// TagStatsDTO 标签统计
type TagStatsDTO struct {
	Tags []*TagStatDTO `json:"tags"`
}
