package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pieats/internal/models"
	"pieats/internal/storage"
)

// CreateRestaurantInput is the validated payload for a new recommendation.
type CreateRestaurantInput struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
	Dishes    []string
	CreatedBy string
}

// UpdateRestaurantInput carries optional detail updates. Score and balance
// are counters owned by the accounting flow and cannot be set here.
type UpdateRestaurantInput struct {
	Name      *string
	Address   *string
	Latitude  *float64
	Longitude *float64
	Dishes    []string
}

// RestaurantService manages restaurant records and their photos.
type RestaurantService struct {
	db    *gorm.DB
	blobs storage.Store
}

// NewRestaurantService creates a new RestaurantService
func NewRestaurantService(db *gorm.DB, blobs storage.Store) *RestaurantService {
	return &RestaurantService{db: db, blobs: blobs}
}

// CreateRestaurant persists a new restaurant with zeroed counters.
func (s *RestaurantService) CreateRestaurant(input CreateRestaurantInput) (*models.Restaurant, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("restaurant name is required")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, fmt.Errorf("restaurant address is required")
	}
	if input.Latitude < -90 || input.Latitude > 90 {
		return nil, fmt.Errorf("latitude out of range: %f", input.Latitude)
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return nil, fmt.Errorf("longitude out of range: %f", input.Longitude)
	}
	if strings.TrimSpace(input.CreatedBy) == "" {
		return nil, fmt.Errorf("creator uid is required")
	}

	now := time.Now()
	restaurant := models.Restaurant{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(input.Name),
		Address:    strings.TrimSpace(input.Address),
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Photos:     []string{},
		Dishes:     input.Dishes,
		CreatedBy:  input.CreatedBy,
		TotalScore: 0,
		Balance:    decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.db.Create(&restaurant).Error; err != nil {
		return nil, fmt.Errorf("failed to create restaurant: %w", err)
	}

	return &restaurant, nil
}

// UpdateRestaurant applies detail changes, leaving the counters untouched.
func (s *RestaurantService) UpdateRestaurant(id string, input UpdateRestaurantInput) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}

	res := s.db.Model(&models.Restaurant{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to update restaurant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("restaurant %s not found", id)
	}

	// Serialized columns must go through a struct update so the JSON
	// serializer applies; a map value would reach the driver raw.
	if input.Dishes != nil {
		if err := s.db.Model(&models.Restaurant{}).Where("id = ?", id).
			Select("dishes").
			Updates(models.Restaurant{Dishes: input.Dishes}).Error; err != nil {
			return fmt.Errorf("failed to update dishes: %w", err)
		}
	}

	return nil
}

// GetRestaurantByID returns nil (no error) when the restaurant is unknown.
func (s *RestaurantService) GetRestaurantByID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := s.db.Where("id = ?", id).First(&restaurant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	return &restaurant, nil
}

// GetAllRestaurants returns every restaurant, newest first.
func (s *RestaurantService) GetAllRestaurants() ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := s.db.Order("created_at DESC").Find(&restaurants).Error; err != nil {
		return nil, fmt.Errorf("failed to load restaurants: %w", err)
	}
	return restaurants, nil
}

// SearchRestaurants matches the term against name or address,
// case-insensitively.
func (s *RestaurantService) SearchRestaurants(term string) ([]models.Restaurant, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(term)) + "%"

	var restaurants []models.Restaurant
	err := s.db.
		Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern).
		Order("created_at DESC").
		Find(&restaurants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search restaurants: %w", err)
	}
	return restaurants, nil
}

// AddPhoto stores the photo blob and appends its URL to the restaurant's
// photo list (insertion order is display order).
func (s *RestaurantService) AddPhoto(id, filename string, r io.Reader) (string, error) {
	restaurant, err := s.GetRestaurantByID(id)
	if err != nil {
		return "", err
	}
	if restaurant == nil {
		return "", fmt.Errorf("restaurant %s not found", id)
	}

	key := fmt.Sprintf("restaurants/%s/%d_%s", id, time.Now().UnixMilli(), path.Base(filename))
	url, err := s.blobs.Save(key, r)
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	// Struct update so the photos column goes through the JSON serializer.
	photos := append(restaurant.Photos, url)
	if err := s.db.Model(&models.Restaurant{}).Where("id = ?", id).
		Select("photos", "updated_at").
		Updates(models.Restaurant{Photos: photos, UpdatedAt: time.Now()}).Error; err != nil {
		return "", fmt.Errorf("failed to record photo: %w", err)
	}

	return url, nil
}
