package service

import (
	"context"
	"strconv"
	"time"
)

const (
	exchangeRateCacheKey = "exchange_rate"
	exchangeRateCacheTTL = time.Hour
)

// GetExchangeRate returns the current USD to LBP rate, creating the
// singleton row with the default rate on first access.
func (s *service) GetExchangeRate(ctx context.Context) (float64, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, exchangeRateCacheKey); err == nil {
			if rate, err := strconv.ParseFloat(cached, 64); err == nil {
				return rate, nil
			}
		}
	}

	record, err := s.repo.GetOrCreateExchangeRate(ctx)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		value := strconv.FormatFloat(record.Rate, 'f', -1, 64)
		if err := s.cache.Set(ctx, exchangeRateCacheKey, value, exchangeRateCacheTTL); err != nil {
			s.log.WithError(err).Warn("Failed to cache exchange rate")
		}
	}
	return record.Rate, nil
}

// SetExchangeRate overwrites the singleton rate and invalidates the cache
func (s *service) SetExchangeRate(ctx context.Context, rate float64) (float64, error) {
	record, err := s.repo.GetOrCreateExchangeRate(ctx)
	if err != nil {
		return 0, err
	}

	record.Rate = rate
	if err := s.repo.UpdateExchangeRate(ctx, record); err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, exchangeRateCacheKey); err != nil {
			s.log.WithError(err).Warn("Failed to invalidate exchange rate cache")
		}
	}

	s.log.WithField("rate", rate).Info("Exchange rate updated")
	return record.Rate, nil
}
