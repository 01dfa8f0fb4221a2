// Package models 数据模型 - 影片记录
package models

import (
	"fmt"
	"time"
)

// Movie 影片收藏表
//
// Ranking 不落库，仅在列表查询时按评分倒序计算
type Movie struct {
	ID          uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string   `gorm:"column:title;size:250;uniqueIndex;not null" json:"title"`
	Year        int      `gorm:"column:year;not null" json:"year"`
	Description string   `gorm:"column:description;type:text;not null" json:"description"`
	Rating      *float64 `gorm:"column:rating" json:"rating"`
	Review      *string  `gorm:"column:review;size:500" json:"review"`
	ImgURL      string   `gorm:"column:img_url;size:250;not null" json:"img_url"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Ranking int `gorm:"-" json:"ranking"`
}

// TableName 表名
func (Movie) TableName() string {
	return "movies"
}

// IsRated 是否已评分
func (m Movie) IsRated() bool {
	return m.Rating != nil
}

// RatingDisplay 评分展示文本
func (m Movie) RatingDisplay() string {
	if m.Rating == nil {
		return "未评分"
	}
	return fmt.Sprintf("%.1f", *m.Rating)
}

// ReviewDisplay 评论展示文本
func (m Movie) ReviewDisplay() string {
	if m.Review == nil {
		return ""
	}
	return *m.Review
}
