// Package web 表单校验测试
package web

import (
	"strings"
	"testing"
)

func TestParseRateForm(t *testing.T) {
	tests := []struct {
		name       string
		rating     string
		review     string
		wantValid  bool
		wantFields []string
	}{
		{"合法输入", "7.5", "很不错", true, nil},
		{"评分带空格", " 7.5 ", "很不错", true, nil},
		{"评分为空", "", "很不错", false, []string{"rating"}},
		{"评论为空", "7.5", "", false, []string{"review"}},
		{"全部为空", "", "", false, []string{"rating", "review"}},
		{"纯空白视为空", "   ", "  ", false, []string{"rating", "review"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, errs := ParseRateForm(tt.rating, tt.review)

			if tt.wantValid {
				if errs != nil {
					t.Fatalf("不应该有校验错误: %v", errs)
				}
				if form.Rating != strings.TrimSpace(tt.rating) {
					t.Errorf("评分应该去除空白: %q", form.Rating)
				}
				return
			}

			if errs == nil {
				t.Fatal("应该返回校验错误")
			}
			for _, field := range tt.wantFields {
				if _, ok := errs[field]; !ok {
					t.Errorf("应该包含字段 %s 的错误，实际: %v", field, errs)
				}
			}
		})
	}
}

func TestParseRateForm_LongReviewTruncated(t *testing.T) {
	long := strings.Repeat("好", 600)

	form, errs := ParseRateForm("8.0", long)
	if errs != nil {
		t.Fatalf("超长评论不应该拒绝: %v", errs)
	}

	if got := len([]rune(form.Review)); got != 500 {
		t.Errorf("评论应该截断到 500 字，实际 %d 字", got)
	}
}

func TestParseAddForm(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		wantValid bool
	}{
		{"合法标题", "Inception", true},
		{"标题带空格", "  Inception  ", true},
		{"空标题", "", false},
		{"纯空白", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form, errs := ParseAddForm(tt.title)

			if tt.wantValid {
				if errs != nil {
					t.Fatalf("不应该有校验错误: %v", errs)
				}
				if form.Title != strings.TrimSpace(tt.title) {
					t.Errorf("标题应该去除空白: %q", form.Title)
				}
				return
			}

			if errs == nil {
				t.Fatal("应该返回校验错误")
			}
			if _, ok := errs["title"]; !ok {
				t.Errorf("应该包含 title 字段错误，实际: %v", errs)
			}
		})
	}
}
