package rating

import (
	"errors"
	"fmt"
	"math"
	"time"

	"localserve/apperr"
	"localserve/logger"
	bookingModel "localserve/models/booking"
	ratingModel "localserve/models/rating"
	vendorModel "localserve/models/vendor"

	"gorm.io/gorm"
)

// PublishDelay is how long a submitted rating is held back before the
// sweep makes it visible.
const PublishDelay = 5 * time.Minute

// Service accepts ratings for completed bookings and maintains the vendor
// aggregate over published ratings.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Submit stores one rating per completed booking, unpublished, due to go
// live after PublishDelay.
func (s *Service) Submit(customerID, bookingID uint, score int, review string) (*ratingModel.Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperr.Validation("Score must be 1-5.")
	}

	var booking bookingModel.Booking
	if err := s.DB.First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Booking not found")
		}
		return nil, apperr.Internal(err)
	}

	if booking.Status != bookingModel.StatusCompleted {
		return nil, apperr.StateConflict("Can only rate completed bookings.")
	}

	var existing ratingModel.Rating
	err := s.DB.Where("booking_id = ?", bookingID).First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("ALREADY_RATED", "Already rated.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal(err)
	}

	rating := ratingModel.Rating{
		BookingID:  bookingID,
		CustomerID: customerID,
		VendorID:   booking.VendorID,
		Score:      score,
		Review:     review,
		PublishAt:  time.Now().Add(PublishDelay),
	}
	if err := s.DB.Create(&rating).Error; err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to create rating: %w", err))
	}

	// Counts only already-published rows; this one joins the aggregate once
	// the sweep publishes it. Best-effort: the rating row is already
	// durable, and a failure here must not push the client's retry into
	// the duplicate check. The sweep recomputes again on publish.
	if err := s.RecomputeVendorAggregate(booking.VendorID); err != nil {
		logger.Error("Failed to recompute vendor aggregate", err)
	}

	return &rating, nil
}

// RecomputeVendorAggregate reads all published rating rows for the vendor
// rather than incrementing a running total, so concurrent writers converge
// under last-writer-wins.
func (s *Service) RecomputeVendorAggregate(vendorID uint) error {
	var stats struct {
		Avg   float64
		Count int
	}
	err := s.DB.Model(&ratingModel.Rating{}).
		Select("COALESCE(AVG(score), 0) AS avg, COUNT(*) AS count").
		Where("vendor_id = ? AND is_published = true", vendorID).
		Scan(&stats).Error
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to compute rating aggregate: %w", err))
	}

	err = s.DB.Model(&vendorModel.VendorProfile{}).
		Where("id = ?", vendorID).
		Updates(map[string]interface{}{
			"rating_avg":   math.Round(stats.Avg*10) / 10,
			"rating_count": stats.Count,
		}).Error
	if err != nil {
		return apperr.Internal(fmt.Errorf("failed to update vendor aggregate: %w", err))
	}
	return nil
}
