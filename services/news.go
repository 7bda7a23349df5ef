package services

import (
	"errors"

	"edulearn-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsService struct {
	DB *gorm.DB
}

func NewNewsService(db *gorm.DB) *NewsService {
	return &NewsService{DB: db}
}

// List returns active news, pinned first, newest first within each group.
func (s *NewsService) List(limit int) ([]models.News, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	var items []models.News
	err := s.DB.Where("is_active = ?", true).
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// Get loads one item and bumps its view counter.
func (s *NewsService) Get(newsID string) (*models.News, error) {
	var item models.News
	if err := s.DB.Where("id = ?", newsID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNewsNotFound
		}
		return nil, err
	}

	item.ViewsCount++
	if err := s.DB.Model(&models.News{}).
		Where("id = ?", newsID).
		Update("views_count", gorm.Expr("views_count + 1")).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

type NewsInput struct {
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	MediaType string  `json:"media_type"`
	MediaURL  *string `json:"media_url"`
	IsPinned  bool    `json:"is_pinned"`
}

func (s *NewsService) Create(in NewsInput) (*models.News, error) {
	item := models.News{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Content:   in.Content,
		MediaType: in.MediaType,
		MediaURL:  in.MediaURL,
		IsPinned:  in.IsPinned,
		IsActive:  true,
	}
	if item.MediaType == "" {
		item.MediaType = "text"
	}
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) TogglePin(newsID string) (*models.News, error) {
	var item models.News
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", newsID).First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNewsNotFound
			}
			return err
		}
		item.IsPinned = !item.IsPinned
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *NewsService) Delete(newsID string) error {
	res := s.DB.Where("id = ?", newsID).Delete(&models.News{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNewsNotFound
	}
	return nil
}
