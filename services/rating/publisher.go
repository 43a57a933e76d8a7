package rating

import (
	"time"

	"localserve/logger"
	ratingModel "localserve/models/rating"
)

// DefaultSweepInterval is how often the publisher looks for due ratings.
const DefaultSweepInterval = time.Minute

// Publisher periodically flips due ratings live. The claim is a conditional
// update gated on is_published=false, so several worker instances sweeping
// concurrently cannot double-publish a row.
type Publisher struct {
	Service  *Service
	Interval time.Duration
}

func NewPublisher(service *Service) *Publisher {
	return &Publisher{Service: service, Interval: DefaultSweepInterval}
}

// Start loops until stop is closed.
func (p *Publisher) Start(stop <-chan struct{}) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	logger.Info("Rating publisher started")
	for {
		select {
		case <-stop:
			logger.Info("Rating publisher stopped")
			return
		case <-ticker.C:
			if _, err := p.RunOnce(); err != nil {
				logger.Error("Rating publish sweep failed", err)
			}
		}
	}
}

// RunOnce claims and publishes every due rating, then recomputes the
// aggregate for each affected vendor. Returns how many claims this instance
// won. Idempotent: a second run with nothing due is a no-op.
func (p *Publisher) RunOnce() (int, error) {
	var due []ratingModel.Rating
	err := p.Service.DB.
		Where("is_published = false AND publish_at <= ?", time.Now()).
		Find(&due).Error
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	published := 0
	vendors := make(map[uint]bool)
	for _, r := range due {
		res := p.Service.DB.Model(&ratingModel.Rating{}).
			Where("id = ? AND is_published = false", r.ID).
			Update("is_published", true)
		if res.Error != nil {
			logger.Error("Failed to publish rating", res.Error)
			continue
		}
		if res.RowsAffected == 1 {
			// This instance won the claim.
			vendors[r.VendorID] = true
			published++
		}
	}

	for vendorID := range vendors {
		if err := p.Service.RecomputeVendorAggregate(vendorID); err != nil {
			logger.Error("Failed to recompute vendor aggregate", err)
		}
	}

	if published > 0 {
		logger.Infof("Published %d rating(s)", published)
	}
	return published, nil
}
