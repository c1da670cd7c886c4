package jobs

import (
	"log"
	"time"

	"pieats/internal/services"
)

// DistributionJob runs the annual reward distribution computation on the
// last day of each reward year. It computes and logs the per-user amounts;
// moving funds is out of scope.
type DistributionJob struct {
	rewards     *services.RewardService
	lastRunYear int
}

// NewDistributionJob creates a new DistributionJob
func NewDistributionJob(rewards *services.RewardService) *DistributionJob {
	return &DistributionJob{rewards: rewards}
}

// Start begins the periodic distribution check
func (j *DistributionJob) Start(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			j.runIfDue(time.Now())
		}
	}()
}

func (j *DistributionJob) runIfDue(now time.Time) {
	_, yearEnd := services.RewardYearRange(now)
	if now.Year() == j.lastRunYear || now.Before(yearEnd.AddDate(0, 0, -1)) {
		return
	}

	shares, err := j.rewards.ComputeAnnualDistribution()
	if err != nil {
		log.Printf("Annual distribution computation failed: %v", err)
		return
	}

	j.lastRunYear = now.Year()

	log.Printf("Annual distribution computed for %d: %d users", now.Year(), len(shares))
	for _, share := range shares {
		log.Printf("Distribution share: user=%s amount=%s", share.UserID, share.Amount)
	}
}
