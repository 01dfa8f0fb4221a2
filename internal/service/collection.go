// Package service 影片收藏服务
package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/smysle/sakura-cinelist-go/internal/database/models"
	"github.com/smysle/sakura-cinelist-go/internal/database/repository"
	"github.com/smysle/sakura-cinelist-go/internal/notify"
	"github.com/smysle/sakura-cinelist-go/internal/tmdb"
	"github.com/smysle/sakura-cinelist-go/pkg/logger"
	"gorm.io/gorm"
)

// CollectionService 收藏服务
type CollectionService struct {
	repo     *repository.MovieRepository
	tmdb     *tmdb.Client
	notifier *notify.Notifier
}

// NewCollectionService 创建收藏服务
func NewCollectionService(repo *repository.MovieRepository, tmdbClient *tmdb.Client, notifier *notify.Notifier) *CollectionService {
	return &CollectionService{
		repo:     repo,
		tmdb:     tmdbClient,
		notifier: notifier,
	}
}

// ListRanked 按评分倒序返回全部影片，Ranking 为 1 起的名次
//
// Ranking 只在返回值上赋值，不写回数据库
func (s *CollectionService) ListRanked() ([]models.Movie, error) {
	movies, err := s.repo.ListByRatingDesc()
	if err != nil {
		return nil, err
	}

	for i := range movies {
		movies[i].Ranking = i + 1
	}

	return movies, nil
}

// Get 获取单个影片
func (s *CollectionService) Get(id uint) (*models.Movie, error) {
	movie, err := s.repo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return movie, err
}

// AddFromCandidate 根据 TMDB ID 拉取详情并入库
//
// 标题重复时返回已有记录和 ErrAlreadyCollected
func (s *CollectionService) AddFromCandidate(tmdbID int) (*models.Movie, error) {
	detail, err := s.tmdb.GetMovieDetail(tmdbID)
	if err != nil {
		return nil, err
	}

	// 详情缺少关键字段时按上游异常处理，不做默认值兜底
	if detail.ReleaseDate == "" || detail.PosterPath == "" {
		return nil, fmt.Errorf("%w: 详情缺少 release_date 或 poster_path", tmdb.ErrUpstream)
	}

	year, err := parseYear(detail.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("%w: release_date 格式异常 %q", tmdb.ErrUpstream, detail.ReleaseDate)
	}

	// 入库前按标题查重
	existing, err := s.repo.GetByTitle(detail.Title)
	if err == nil {
		logger.Info().Str("title", detail.Title).Msg("影片已在收藏中，跳过入库")
		return existing, ErrAlreadyCollected
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	movie := &models.Movie{
		Title:       detail.Title,
		Year:        year,
		Description: detail.Overview,
		ImgURL:      s.tmdb.ImageURL(detail.PosterPath),
	}
	if err := s.repo.Create(movie); err != nil {
		return nil, err
	}

	logger.Info().Uint("id", movie.ID).Str("title", movie.Title).Int("year", movie.Year).Msg("影片入库成功")
	s.notifier.MovieAdded(movie)

	return movie, nil
}

// Rate 解析评分并更新记录
//
// 评分不是数字时返回 ErrInvalidRating，记录保持原样
func (s *CollectionService) Rate(id uint, ratingStr, review string) (*models.Movie, error) {
	movie, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	rating, err := strconv.ParseFloat(strings.TrimSpace(ratingStr), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRating, ratingStr)
	}

	movie.Rating = &rating
	movie.Review = &review
	if err := s.repo.Save(movie); err != nil {
		return nil, err
	}

	logger.Info().Uint("id", movie.ID).Float64("rating", rating).Msg("影片评分已更新")
	s.notifier.MovieRated(movie)

	return movie, nil
}

// Remove 删除影片
func (s *CollectionService) Remove(id uint) error {
	err := s.repo.Delete(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	logger.Info().Uint("id", id).Msg("影片已删除")
	return nil
}

// parseYear 取 release_date 第一段作为年份
func parseYear(releaseDate string) (int, error) {
	return strconv.Atoi(strings.SplitN(releaseDate, "-", 2)[0])
}
