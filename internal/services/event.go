package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/slug"
)

// EventService owns event creation and the public listing queries.
type EventService struct {
	db    *gorm.DB
	slugs *slug.Allocator
}

func NewEventService(db *gorm.DB) *EventService {
	s := &EventService{db: db}
	s.slugs = slug.NewAllocator(func(ctx context.Context, candidate string) (bool, error) {
		var count int64
		err := db.WithContext(ctx).Unscoped().
			Model(&models.Event{}).
			Where("slug = ?", candidate).
			Count(&count).Error
		return count > 0, err
	})
	return s
}

// Create allocates a slug from the title and inserts the event. Same
// duplicate-retry contract as SocietyService.Create.
func (s *EventService) Create(ctx context.Context, ev *models.Event) error {
	allocated, err := s.slugs.Allocate(ctx, ev.Title)
	if err != nil {
		return err
	}
	ev.Slug = allocated
	err = s.db.WithContext(ctx).Create(ev).Error
	if err == nil {
		return nil
	}
	if !slug.IsDuplicate(err) {
		return fmt.Errorf("create event: %w", err)
	}
	allocated, aerr := s.slugs.Allocate(ctx, ev.Title)
	if aerr != nil {
		return aerr
	}
	ev.Slug = allocated
	err = s.db.WithContext(ctx).Create(ev).Error
	if err == nil {
		return nil
	}
	if slug.IsDuplicate(err) {
		return ErrDuplicateSlug
	}
	return fmt.Errorf("create event: %w", err)
}

// EventFilter narrows the public events listing.
type EventFilter struct {
	Search string
	Type   string
	Region string
}

// Upcoming returns published, active events starting from now, soonest first.
func (s *EventService) Upcoming(ctx context.Context, f EventFilter) ([]models.Event, error) {
	q := s.db.WithContext(ctx).
		Preload("Society").
		Where("is_published = ?", true).
		Where("start_datetime >= ?", time.Now().UTC()).
		Order("start_datetime")
	if f.Search != "" {
		q = q.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}
	if f.Type != "" {
		q = q.Where("event_type = ?", f.Type)
	}
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	var events []models.Event
	if err := q.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// BySlug returns a published, active event with its society preloaded.
func (s *EventService) BySlug(ctx context.Context, slugValue string) (*models.Event, error) {
	var ev models.Event
	err := s.db.WithContext(ctx).
		Preload("Society").
		Where("slug = ? AND is_published = ?", slugValue, true).
		First(&ev).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// Regions returns the distinct regions of upcoming events for the filter
// dropdown.
func (s *EventService) Regions(ctx context.Context) ([]string, error) {
	var regions []string
	err := s.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("is_published = ? AND region <> ''", true).
		Distinct("region").
		Order("region").
		Pluck("region", &regions).Error
	return regions, err
}

// Disciplines returns the seeded discipline lookup rows.
func (s *EventService) Disciplines(ctx context.Context) ([]models.Discipline, error) {
	var disciplines []models.Discipline
	err := s.db.WithContext(ctx).Order("code").Find(&disciplines).Error
	return disciplines, err
}

// DisciplineNames resolves discipline codes to display names for lang.
// Unknown codes fall back to the code itself.
func (s *EventService) DisciplineNames(ctx context.Context, codes []string, lang string) ([]string, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var rows []models.Discipline
	if err := s.db.WithContext(ctx).Where("code IN ?", codes).Find(&rows).Error; err != nil {
		return nil, err
	}
	byCode := make(map[string]models.Discipline, len(rows))
	for _, d := range rows {
		byCode[d.Code] = d
	}
	names := make([]string, 0, len(codes))
	for _, c := range codes {
		if d, ok := byCode[c]; ok {
			names = append(names, d.Name(lang))
		} else {
			names = append(names, c)
		}
	}
	return names, nil
}
