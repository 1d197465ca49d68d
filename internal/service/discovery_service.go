package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lookfor-app/experience-service/internal/geo"
	"github.com/lookfor-app/experience-service/internal/models"
	"github.com/lookfor-app/experience-service/internal/repository"
)

// DefaultRadiusKm is the radius applied when the caller selects radius
// filtering without giving one.
const DefaultRadiusKm = 20

type PriceBand string

const (
	PriceAll  PriceBand = "all"
	PriceFree PriceBand = "free"
	PricePaid PriceBand = "paid"
)

// Filter holds the caller-requested discovery criteria. Attribute filters are
// pure and order-independent; geography is applied last. Results are filtered
// by radius only when RadiusFilter is set — otherwise an origin only ranks.
type Filter struct {
	Query    string
	Category string
	Price    PriceBand
	Day      *time.Time
	Hour     *int

	Origin       *geo.Point
	RadiusKm     float64
	RadiusFilter bool
}

// Result is one discovery row: the experience annotated with the viewer's own
// enrollment state and the joined count.
type Result struct {
	Experience  models.Experience
	DistanceKm  *float64
	Joined      bool
	JoinedCount int64
}

type DiscoveryService interface {
	Search(ctx context.Context, viewerID string, filter Filter) ([]Result, error)
	ListJoined(ctx context.Context, userID string) ([]Result, error)
}

type discoveryService struct {
	experienceRepo repository.ExperienceRepository
	enrollmentRepo repository.EnrollmentRepository
}

func NewDiscoveryService(experienceRepo repository.ExperienceRepository, enrollmentRepo repository.EnrollmentRepository) DiscoveryService {
	return &discoveryService{
		experienceRepo: experienceRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (s *discoveryService) Search(ctx context.Context, viewerID string, filter Filter) ([]Result, error) {
	experiences, err := s.experienceRepo.FindUpcoming(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("load upcoming experiences: %w", err)
	}

	experiences = ApplyAttributeFilters(experiences, filter)

	at := func(e models.Experience) geo.Point {
		return geo.Point{Lat: e.LocationLat, Lng: e.LocationLng}
	}

	if filter.Origin != nil {
		if filter.RadiusFilter {
			radius := filter.RadiusKm
			if radius <= 0 {
				radius = DefaultRadiusKm
			}
			experiences = geo.WithinRadius(*filter.Origin, experiences, at, radius)
		}

		ranked := make([]models.Experience, 0, len(experiences))
		for e := range geo.RankByProximity(*filter.Origin, experiences, at) {
			ranked = append(ranked, e)
		}
		experiences = ranked
	}

	return s.annotate(ctx, viewerID, experiences, filter.Origin)
}

// ListJoined returns the viewer's own upcoming joined experiences, soonest
// first.
func (s *discoveryService) ListJoined(ctx context.Context, userID string) ([]Result, error) {
	ids, err := s.enrollmentRepo.FindJoinedExperienceIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load joined enrollments: %w", err)
	}

	experiences, err := s.experienceRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load joined experiences: %w", err)
	}

	now := time.Now()
	upcoming := experiences[:0]
	for _, e := range experiences {
		if !e.StartAt.Before(now) {
			upcoming = append(upcoming, e)
		}
	}

	return s.annotate(ctx, userID, upcoming, nil)
}

func (s *discoveryService) annotate(ctx context.Context, viewerID string, experiences []models.Experience, origin *geo.Point) ([]Result, error) {
	ids := make([]uuid.UUID, len(experiences))
	for i, e := range experiences {
		ids[i] = e.ID
	}

	counts, err := s.enrollmentRepo.CountJoinedGrouped(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}

	joined := map[uuid.UUID]bool{}
	if viewerID != "" {
		joinedIDs, err := s.enrollmentRepo.FindJoinedExperienceIDs(ctx, viewerID)
		if err != nil {
			return nil, fmt.Errorf("load viewer enrollments: %w", err)
		}
		for _, id := range joinedIDs {
			joined[id] = true
		}
	}

	results := make([]Result, len(experiences))
	for i, e := range experiences {
		r := Result{
			Experience:  e,
			Joined:      joined[e.ID],
			JoinedCount: counts[e.ID],
		}
		if origin != nil {
			d := geo.DistanceKm(*origin, geo.Point{Lat: e.LocationLat, Lng: e.LocationLng})
			r.DistanceKm = &d
		}
		results[i] = r
	}
	return results, nil
}

// ApplyAttributeFilters applies the pure, order-independent filters. Each
// filter only narrows the set, so any application order yields the same
// result.
func ApplyAttributeFilters(experiences []models.Experience, filter Filter) []models.Experience {
	filtered := experiences

	if filter.Query != "" {
		filtered = keep(filtered, func(e models.Experience) bool {
			return matchesQuery(e, filter.Query)
		})
	}

	if filter.Category != "" {
		filtered = keep(filtered, func(e models.Experience) bool {
			return e.Category == filter.Category
		})
	}

	switch filter.Price {
	case PriceFree:
		filtered = keep(filtered, func(e models.Experience) bool {
			return e.Price == nil || *e.Price == 0
		})
	case PricePaid:
		filtered = keep(filtered, func(e models.Experience) bool {
			return e.Price != nil && *e.Price > 0
		})
	}

	if filter.Day != nil {
		y, m, d := filter.Day.Date()
		filtered = keep(filtered, func(e models.Experience) bool {
			ey, em, ed := e.StartAt.Date()
			return ey == y && em == m && ed == d
		})
	}

	if filter.Hour != nil {
		// Experiences starting within two hours of the requested hour.
		filtered = keep(filtered, func(e models.Experience) bool {
			diff := e.StartAt.Hour() - *filter.Hour
			if diff < 0 {
				diff = -diff
			}
			return diff <= 2
		})
	}

	return filtered
}

func matchesQuery(e models.Experience, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Description), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func keep(experiences []models.Experience, pred func(models.Experience) bool) []models.Experience {
	kept := make([]models.Experience, 0, len(experiences))
	for _, e := range experiences {
		if pred(e) {
			kept = append(kept, e)
		}
	}
	return kept
}
