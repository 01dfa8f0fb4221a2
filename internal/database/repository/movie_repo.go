// Package repository 影片数据仓库
package repository

import (
	"github.com/smysle/sakura-cinelist-go/internal/database/models"
	"gorm.io/gorm"
)

// MovieRepository 影片仓库
type MovieRepository struct {
	db *gorm.DB
}

// NewMovieRepository 创建影片仓库
func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create 创建影片记录
func (r *MovieRepository) Create(movie *models.Movie) error {
	return r.db.Create(movie).Error
}

// GetByID 根据 ID 获取影片
func (r *MovieRepository) GetByID(id uint) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.First(&movie, id).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// GetByTitle 根据标题获取影片
func (r *MovieRepository) GetByTitle(title string) (*models.Movie, error) {
	var movie models.Movie
	if err := r.db.Where("title = ?", title).First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

// ListByRatingDesc 按评分倒序获取全部影片
//
// 未评分的记录排在最后，同分按 ID 升序保证稳定
func (r *MovieRepository) ListByRatingDesc() ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.Order("rating DESC").Order("id ASC").Find(&movies).Error
	return movies, err
}

// Save 保存影片变更
func (r *MovieRepository) Save(movie *models.Movie) error {
	return r.db.Save(movie).Error
}

// Delete 删除影片
func (r *MovieRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Movie{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Count 统计影片数量
func (r *MovieRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Movie{}).Count(&count).Error
	return count, err
}

// GetAll 获取所有影片（备份用）
func (r *MovieRepository) GetAll() ([]models.Movie, error) {
	var movies []models.Movie
	err := r.db.Find(&movies).Error
	return movies, err
}
