// Package service 收藏服务测试
package service

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smysle/sakura-cinelist-go/internal/config"
	"github.com/smysle/sakura-cinelist-go/internal/database/models"
	"github.com/smysle/sakura-cinelist-go/internal/database/repository"
	"github.com/smysle/sakura-cinelist-go/internal/tmdb"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestService 内存数据库 + 模拟 TMDB 的收藏服务
func newTestService(t *testing.T, tmdbHandler http.HandlerFunc) (*CollectionService, *repository.MovieRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	// 内存库按连接隔离，必须限制为单连接
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&models.Movie{}); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}

	server := httptest.NewServer(tmdbHandler)
	t.Cleanup(server.Close)

	client := tmdb.NewClient(&config.TMDBConfig{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		ImageBaseURL: "https://image.tmdb.org/t/p/w500",
		Timeout:      5,
	})

	repo := repository.NewMovieRepository(db)
	return NewCollectionService(repo, client, nil), repo
}

// inceptionDetail Inception 详情响应
func inceptionDetail(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/movie/27205" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"id":27205,"title":"Inception","release_date":"2010-07-15","overview":"A thief who steals corporate secrets...","poster_path":"/ince.jpg"}`))
}

func TestCollectionService_AddFromCandidate(t *testing.T) {
	svc, _ := newTestService(t, inceptionDetail)

	movie, err := svc.AddFromCandidate(27205)
	if err != nil {
		t.Fatalf("AddFromCandidate 失败: %v", err)
	}

	if movie.Title != "Inception" {
		t.Errorf("标题映射不正确: %s", movie.Title)
	}
	if movie.Year != 2010 {
		t.Errorf("年份应该取 release_date 第一段 2010，实际是 %d", movie.Year)
	}
	if movie.ImgURL != "https://image.tmdb.org/t/p/w500/ince.jpg" {
		t.Errorf("海报地址拼接不正确: %s", movie.ImgURL)
	}
	if movie.Rating != nil || movie.Review != nil {
		t.Error("新入库影片评分和评论应该为空")
	}
}

func TestCollectionService_AddDuplicate(t *testing.T) {
	svc, repo := newTestService(t, inceptionDetail)

	if _, err := svc.AddFromCandidate(27205); err != nil {
		t.Fatalf("首次入库失败: %v", err)
	}

	// 同一 TMDB ID 再次入库不应该产生重复记录
	existing, err := svc.AddFromCandidate(27205)
	if !errors.Is(err, ErrAlreadyCollected) {
		t.Fatalf("重复入库应该返回 ErrAlreadyCollected，实际: %v", err)
	}
	if existing == nil || existing.Title != "Inception" {
		t.Error("重复入库应该返回已有记录")
	}

	count, err := repo.Count()
	if err != nil {
		t.Fatalf("Count 失败: %v", err)
	}
	if count != 1 {
		t.Errorf("同名影片只应该有一条记录，实际 %d 条", count)
	}
}

func TestCollectionService_AddMissingFields(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"缺少 release_date", `{"id":1,"title":"无日期影片","release_date":"","overview":"...","poster_path":"/x.jpg"}`},
		{"缺少 poster_path", `{"id":1,"title":"无海报影片","release_date":"2020-01-01","overview":"...","poster_path":""}`},
		{"release_date 非法", `{"id":1,"title":"坏日期影片","release_date":"unknown","overview":"...","poster_path":"/x.jpg"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			if _, err := svc.AddFromCandidate(1); !errors.Is(err, tmdb.ErrUpstream) {
				t.Errorf("关键字段缺失应该返回 ErrUpstream，实际: %v", err)
			}

			count, _ := repo.Count()
			if count != 0 {
				t.Errorf("入库失败不应该留下记录，实际 %d 条", count)
			}
		})
	}
}

func TestCollectionService_ListRanked(t *testing.T) {
	svc, repo := newTestService(t, inceptionDetail)

	r73 := 7.3
	r90 := 9.0
	mustSeed(t, repo, "中评影片", &r73)
	mustSeed(t, repo, "高分影片", &r90)
	mustSeed(t, repo, "未评分影片", nil)

	movies, err := svc.ListRanked()
	if err != nil {
		t.Fatalf("ListRanked 失败: %v", err)
	}

	if len(movies) != 3 {
		t.Fatalf("应该返回 3 条记录，实际 %d 条", len(movies))
	}

	if movies[0].Title != "高分影片" || movies[0].Ranking != 1 {
		t.Errorf("最高分应该排名 1，实际: %s 排名 %d", movies[0].Title, movies[0].Ranking)
	}
	if movies[1].Title != "中评影片" || movies[1].Ranking != 2 {
		t.Errorf("7.3 分应该排名 2，实际: %s 排名 %d", movies[1].Title, movies[1].Ranking)
	}
	if movies[2].Title != "未评分影片" || movies[2].Ranking != 3 {
		t.Errorf("未评分影片应该排在最后，实际: %s 排名 %d", movies[2].Title, movies[2].Ranking)
	}
}

func TestCollectionService_NewMovieRankedLast(t *testing.T) {
	svc, repo := newTestService(t, inceptionDetail)

	r90 := 9.0
	mustSeed(t, repo, "已评分影片", &r90)

	if _, err := svc.AddFromCandidate(27205); err != nil {
		t.Fatalf("入库失败: %v", err)
	}

	movies, err := svc.ListRanked()
	if err != nil {
		t.Fatalf("ListRanked 失败: %v", err)
	}

	last := movies[len(movies)-1]
	if last.Title != "Inception" {
		t.Errorf("新入库未评分影片应该排在所有已评分影片之后，实际最后一名是 %s", last.Title)
	}
}

func TestCollectionService_Rate(t *testing.T) {
	svc, repo := newTestService(t, inceptionDetail)

	movie := mustSeed(t, repo, "待评分", nil)

	updated, err := svc.Rate(movie.ID, "7.5", "很不错")
	if err != nil {
		t.Fatalf("Rate 失败: %v", err)
	}
	if updated.Rating == nil || *updated.Rating != 7.5 {
		t.Errorf("评分解析不正确: %v", updated.Rating)
	}

	got, err := repo.GetByID(movie.ID)
	if err != nil {
		t.Fatalf("读回失败: %v", err)
	}
	if got.Rating == nil || *got.Rating != 7.5 {
		t.Errorf("评分读回应该是 7.5，实际: %v", got.Rating)
	}
	if got.Review == nil || *got.Review != "很不错" {
		t.Errorf("评论读回不一致: %v", got.Review)
	}
}

func TestCollectionService_RateInvalid(t *testing.T) {
	svc, repo := newTestService(t, inceptionDetail)

	movie := mustSeed(t, repo, "待评分", nil)

	if _, err := svc.Rate(movie.ID, "abc", "随便写写"); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("非数字评分应该返回 ErrInvalidRating，实际: %v", err)
	}

	// 失败不应该改动记录
	got, err := repo.GetByID(movie.ID)
	if err != nil {
		t.Fatalf("读回失败: %v", err)
	}
	if got.Rating != nil || got.Review != nil {
		t.Error("评分失败后记录不应该被修改")
	}
}

func TestCollectionService_RateMissing(t *testing.T) {
	svc, _ := newTestService(t, inceptionDetail)

	if _, err := svc.Rate(9999, "7.5", "无此影片"); !errors.Is(err, ErrNotFound) {
		t.Errorf("评分不存在的影片应该返回 ErrNotFound，实际: %v", err)
	}
}

func TestCollectionService_RemoveMissing(t *testing.T) {
	svc, repo := newTestService(t, inceptionDetail)

	mustSeed(t, repo, "仅存影片", nil)

	if err := svc.Remove(9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("删除不存在的影片应该返回 ErrNotFound，实际: %v", err)
	}

	count, _ := repo.Count()
	if count != 1 {
		t.Errorf("删除失败不应该影响已有记录数，实际 %d", count)
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		date     string
		expected int
		wantErr  bool
	}{
		{"2010-07-15", 2010, false},
		{"1999-01-01", 1999, false},
		{"2020", 2020, false},
		{"unknown", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got, err := parseYear(tt.date)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseYear(%q) 应该报错", tt.date)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseYear(%q) 报错: %v", tt.date, err)
			}
			if got != tt.expected {
				t.Errorf("parseYear(%q) = %d, want %d", tt.date, got, tt.expected)
			}
		})
	}
}

// mustSeed 直接写入一条影片记录
func mustSeed(t *testing.T, repo *repository.MovieRepository, title string, rating *float64) *models.Movie {
	t.Helper()

	movie := &models.Movie{
		Title:       title,
		Year:        2000,
		Description: "测试影片 " + title,
		Rating:      rating,
		ImgURL:      "https://image.tmdb.org/t/p/w500/" + title + ".jpg",
	}
	if err := repo.Create(movie); err != nil {
		t.Fatalf("写入测试影片失败: %v", err)
	}
	return movie
}
