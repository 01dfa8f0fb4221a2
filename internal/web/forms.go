package web

import "strings"

// FieldErrors 字段级校验错误，键为字段名
type FieldErrors map[string]string

// RateForm 评分表单（评分保持原始字符串，由服务层解析为 float）
type RateForm struct {
	Rating string
	Review string
}

// ParseRateForm 校验评分表单，返回解析结果或字段错误
func ParseRateForm(rating, review string) (*RateForm, FieldErrors) {
	errs := FieldErrors{}

	rating = strings.TrimSpace(rating)
	review = strings.TrimSpace(review)

	if rating == "" {
		errs["rating"] = "请输入评分"
	}
	if review == "" {
		errs["review"] = "请输入评论"
	}
	// 评论上限为软限制，超长截断而不是拒绝
	if len([]rune(review)) > 500 {
		review = string([]rune(review)[:500])
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &RateForm{Rating: rating, Review: review}, nil
}

// AddForm 搜索表单
type AddForm struct {
	Title string
}

// ParseAddForm 校验搜索表单
func ParseAddForm(title string) (*AddForm, FieldErrors) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, FieldErrors{"title": "请输入影片标题"}
	}
	return &AddForm{Title: title}, nil
}
