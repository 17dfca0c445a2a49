package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
	appErrors "github.com/agrovigil/agrovigil-api/pkg/errors"
)

const (
	cacheKeySummary = "reports:summary"
	cacheKeyTrend   = "reports:trend"

	earthRadiusKm = 6371.0
)

type reportRepository interface {
	SummaryCounts(ctx context.Context) (*models.SummaryCounts, error)
	TopDiseases(ctx context.Context, limit int) ([]models.DiseaseCount, error)
	MonthlyTrend(ctx context.Context) ([]models.MonthlyTrend, error)
	ListGeoTagged(ctx context.Context) ([]models.Inquiry, error)
}

// SummaryReport is the manager dashboard payload combining status counts and
// the top-disease grouping.
type SummaryReport struct {
	Counts      models.SummaryCounts  `json:"counts"`
	TopDiseases []models.DiseaseCount `json:"top_diseases"`
}

// ReportService computes read-only derived views over the inquiry
// collection. All entry points are manager-gated. Summary and trend results
// are optionally cached in Redis; a cache failure degrades to a live query.
type ReportService struct {
	repo         reportRepository
	cache        *redis.Client
	logger       *zap.Logger
	cacheTTL     time.Duration
	cacheEnabled bool
}

// NewReportService creates an instance of ReportService. A nil cache client
// disables caching regardless of the enabled flag.
func NewReportService(repo reportRepository, cache *redis.Client, logger *zap.Logger, cacheEnabled bool, cacheTTL time.Duration) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cacheEnabled = false
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ReportService{repo: repo, cache: cache, logger: logger, cacheTTL: cacheTTL, cacheEnabled: cacheEnabled}
}

// Summary returns total/pending/resolved counts with the top five diseases.
// The in-progress count is derivable as total - pending - resolved.
func (s *ReportService) Summary(ctx context.Context, actor policy.Actor) (*SummaryReport, bool, error) {
	if !policy.Allowed(actor, policy.ActionReportsView, policy.Resource{}) {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	var cached SummaryReport
	if s.readCache(ctx, cacheKeySummary, &cached) {
		return &cached, true, nil
	}

	counts, err := s.repo.SummaryCounts(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute summary")
	}

	diseases, err := s.repo.TopDiseases(ctx, 5)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute top diseases")
	}

	report := &SummaryReport{Counts: *counts, TopDiseases: diseases}
	s.writeCache(ctx, cacheKeySummary, report)
	return report, false, nil
}

// MonthlyTrend returns per-month inquiry counts, months 1-12 ascending.
func (s *ReportService) MonthlyTrend(ctx context.Context, actor policy.Actor) ([]models.MonthlyTrend, bool, error) {
	if !policy.Allowed(actor, policy.ActionReportsView, policy.Resource{}) {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	var cached []models.MonthlyTrend
	if s.readCache(ctx, cacheKeyTrend, &cached) {
		return cached, true, nil
	}

	trend, err := s.repo.MonthlyTrend(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute monthly trend")
	}

	s.writeCache(ctx, cacheKeyTrend, trend)
	return trend, false, nil
}

// Clusters groups geo-tagged inquiries whose pairwise distance falls within
// radiusKm, reporting each group's centroid, size and dominant disease. A
// single greedy pairwise pass; fine for the collection sizes involved.
func (s *ReportService) Clusters(ctx context.Context, actor policy.Actor, radiusKm float64) ([]models.Cluster, error) {
	if !policy.Allowed(actor, policy.ActionReportsView, policy.Resource{}) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "manager role required")
	}

	if radiusKm <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "radius must be positive")
	}

	inquiries, err := s.repo.ListGeoTagged(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load geo-tagged inquiries")
	}

	return clusterInquiries(inquiries, radiusKm), nil
}

func clusterInquiries(inquiries []models.Inquiry, radiusKm float64) []models.Cluster {
	assigned := make([]bool, len(inquiries))
	clusters := make([]models.Cluster, 0)

	for i := range inquiries {
		if assigned[i] {
			continue
		}

		members := []int{i}
		assigned[i] = true
		for j := i + 1; j < len(inquiries); j++ {
			if assigned[j] {
				continue
			}
			d := haversineKm(*inquiries[i].Latitude, *inquiries[i].Longitude, *inquiries[j].Latitude, *inquiries[j].Longitude)
			if d <= radiusKm {
				members = append(members, j)
				assigned[j] = true
			}
		}

		var latSum, lonSum float64
		diseaseCounts := make(map[string]int)
		for _, idx := range members {
			latSum += *inquiries[idx].Latitude
			lonSum += *inquiries[idx].Longitude
			diseaseCounts[inquiries[idx].DiseaseName]++
		}

		dominant := ""
		best := 0
		for name, count := range diseaseCounts {
			if count > best {
				dominant = name
				best = count
			}
		}

		clusters = append(clusters, models.Cluster{
			Latitude:        latSum / float64(len(members)),
			Longitude:       lonSum / float64(len(members)),
			Count:           len(members),
			DominantDisease: dominant,
		})
	}

	return clusters
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (s *ReportService) readCache(ctx context.Context, key string, target interface{}) bool {
	if !s.cacheEnabled {
		return false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, target); err != nil {
		s.logger.Warn("report cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *ReportService) writeCache(ctx context.Context, key string, value interface{}) {
	if !s.cacheEnabled {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}
