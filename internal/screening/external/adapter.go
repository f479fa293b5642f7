// internal/screening/external/adapter.go
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mahek226/LoanManagementSystem/internal/common/config"
	"github.com/Mahek226/LoanManagementSystem/internal/common/logger"
	"github.com/Mahek226/LoanManagementSystem/internal/common/metrics"
	"github.com/Mahek226/LoanManagementSystem/internal/models"
)

// Adapter screens an applicant against the record-matching collaborator with
// a bounded timeout and retry budget, caching matched results in Redis.
type Adapter struct {
	client     RecordClient
	cache      *redis.Client
	cfg        config.ExternalConfig
	thresholds config.TierThresholds
	log        logger.Logger
}

// New builds the adapter. cache may be nil; caching is then skipped entirely.
func New(client RecordClient, cache *redis.Client, cfg config.ScreeningConfig, log logger.Logger) *Adapter {
	return &Adapter{
		client:     client,
		cache:      cache,
		cfg:        cfg.External,
		thresholds: cfg.TierThresholds,
		log:        log,
	}
}

// Screen queries the collaborator and weights its findings. Any failure after
// the retry budget degrades to a neutral result; screening never blocks on
// this collaborator.
func (a *Adapter) Screen(ctx context.Context, profile *models.ApplicantProfile) models.ExternalScreeningResult {
	if !a.cfg.Enabled || a.client == nil {
		return neutral()
	}

	cacheKey := fmt.Sprintf("screening:external:%s", profile.ApplicantID)
	if cached, ok := a.fromCache(ctx, cacheKey); ok {
		return cached
	}

	start := time.Now()
	findings, err := a.queryWithRetry(ctx, IdentityFromProfile(profile))
	metrics.ExternalScreeningDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		a.log.WithError(err).Warn("external screening degraded to neutral", map[string]interface{}{
			"applicant_id": profile.ApplicantID,
		})
		metrics.ExternalScreeningFallbacks.Inc()
		result := neutral()
		result.Degraded = true
		return result
	}

	result := scoreFindings(findings, a.thresholds)
	metrics.ScreeningsPerformed.WithLabelValues("external").Inc()
	for _, sig := range result.Signals {
		metrics.SignalsTriggered.WithLabelValues(string(sig.Category)).Inc()
	}

	a.toCache(ctx, cacheKey, result)
	return result
}

func (a *Adapter) queryWithRetry(ctx context.Context, identity Identity) (*Findings, error) {
	timeout := time.Duration(a.cfg.Timeout) * time.Millisecond
	attempts := a.cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, timeout)
		findings, err := a.client.Query(attemptCtx, identity)
		cancel()

		if err == nil {
			return findings, nil
		}
		lastErr = err

		a.log.WithError(err).Debug("record match attempt failed", map[string]interface{}{
			"attempt": attempt,
		})
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// fromCache returns a previously matched result. Neutral and degraded results
// are never cached, so a hit is always a real finding.
func (a *Adapter) fromCache(ctx context.Context, key string) (models.ExternalScreeningResult, bool) {
	if a.cache == nil {
		return models.ExternalScreeningResult{}, false
	}
	raw, err := a.cache.Get(ctx, key).Result()
	if err != nil {
		return models.ExternalScreeningResult{}, false
	}
	var result models.ExternalScreeningResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return models.ExternalScreeningResult{}, false
	}
	return result, true
}

func (a *Adapter) toCache(ctx context.Context, key string, result models.ExternalScreeningResult) {
	if a.cache == nil || !result.Matched {
		return
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return
	}
	ttl := time.Duration(a.cfg.CacheTTL) * time.Second
	if err := a.cache.Set(ctx, key, raw, ttl).Err(); err != nil {
		a.log.WithError(err).Debug("external screening cache write failed", map[string]interface{}{
			"key": key,
		})
	}
}

func neutral() models.ExternalScreeningResult {
	return models.ExternalScreeningResult{Score: 0, Tier: models.TierClean}
}
