package service

import "errors"

var (
	// ErrNotFound 影片不存在
	ErrNotFound = errors.New("影片不存在")

	// ErrAlreadyCollected 影片已在收藏中
	ErrAlreadyCollected = errors.New("影片已在收藏中")

	// ErrInvalidRating 评分不是合法数字
	ErrInvalidRating = errors.New("评分必须是数字")
)
