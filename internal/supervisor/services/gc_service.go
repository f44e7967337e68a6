// RentPredict - Rent Estimation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rentpredict

package services

import (
	"context"
	"time"

	"github.com/tomtom215/rentpredict/internal/logging"
)

// GarbageCollector reclaims storage space. Satisfied by *feedback.Store.
type GarbageCollector interface {
	RunGC(ctx context.Context) (int, error)
}

// FeedbackGCService runs value log GC on the feedback store at a fixed
// interval. GC errors are logged and do not stop the service.
type FeedbackGCService struct {
	gc       GarbageCollector
	interval time.Duration
	name     string
}

// NewFeedbackGCService creates the service. A non-positive interval
// defaults to 10 minutes.
func NewFeedbackGCService(gc GarbageCollector, interval time.Duration) *FeedbackGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &FeedbackGCService{
		gc:       gc,
		interval: interval,
		name:     "feedback-gc",
	}
}

// Serve implements suture.Service.
func (s *FeedbackGCService) Serve(ctx context.Context) error {
	log := logging.WithComponent(s.name)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := s.gc.RunGC(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Warn().Err(err).Msg("Feedback store GC failed")
				continue
			}
			if n > 0 {
				log.Debug().Int("rewritten", n).Msg("Feedback store GC reclaimed value log files")
			}
		}
	}
}

func (s *FeedbackGCService) String() string {
	return s.name
}
