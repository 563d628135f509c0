package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/go-portale/internal/models"
	"github.com/diewo77/go-portale/internal/slug"
)

// ErrDuplicateSlug is returned when an insert collides on the slug unique
// index even after re-allocating once. Handlers surface it as a field
// violation rather than a server error.
var ErrDuplicateSlug = errors.New("duplicate slug")

// ErrNotFound is returned when a referenced entity is absent or soft-deleted.
var ErrNotFound = errors.New("not found")

// SocietyService owns society creation, listing and the admin approval flow.
type SocietyService struct {
	db    *gorm.DB
	slugs *slug.Allocator
}

func NewSocietyService(db *gorm.DB) *SocietyService {
	s := &SocietyService{db: db}
	// The probe must see soft-deleted rows: the unique index does.
	s.slugs = slug.NewAllocator(func(ctx context.Context, candidate string) (bool, error) {
		var count int64
		err := db.WithContext(ctx).Unscoped().
			Model(&models.Society{}).
			Where("slug = ?", candidate).
			Count(&count).Error
		return count > 0, err
	})
	return s
}

// Create allocates a slug from the society name and inserts the row
// unapproved. A duplicate-key insert (lost slug race) triggers exactly one
// re-allocation; a second collision surfaces as ErrDuplicateSlug.
func (s *SocietyService) Create(ctx context.Context, soc *models.Society) error {
	allocated, err := s.slugs.Allocate(ctx, soc.Name)
	if err != nil {
		return err
	}
	soc.Slug = allocated
	err = s.db.WithContext(ctx).Create(soc).Error
	if err == nil {
		return nil
	}
	if !slug.IsDuplicate(err) {
		return fmt.Errorf("create society: %w", err)
	}
	allocated, aerr := s.slugs.Allocate(ctx, soc.Name)
	if aerr != nil {
		return aerr
	}
	soc.Slug = allocated
	err = s.db.WithContext(ctx).Create(soc).Error
	if err == nil {
		return nil
	}
	if slug.IsDuplicate(err) {
		return ErrDuplicateSlug
	}
	return fmt.Errorf("create society: %w", err)
}

// ListApproved returns approved, active societies ordered by name, optionally
// filtered by a case-insensitive name search.
func (s *SocietyService) ListApproved(ctx context.Context, search string) ([]models.Society, error) {
	q := s.db.WithContext(ctx).Where("approved = ?", true).Order("name")
	if search != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	var societies []models.Society
	if err := q.Find(&societies).Error; err != nil {
		return nil, err
	}
	return societies, nil
}

// BySlug returns an active society by slug, approved or not (creators land on
// the detail page right after submitting). Soft-deleted rows are ErrNotFound.
func (s *SocietyService) BySlug(ctx context.Context, slugValue string) (*models.Society, error) {
	var soc models.Society
	err := s.db.WithContext(ctx).Where("slug = ?", slugValue).First(&soc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &soc, nil
}

// Pending returns active, not-yet-approved societies oldest first.
func (s *SocietyService) Pending(ctx context.Context) ([]models.Society, error) {
	var societies []models.Society
	err := s.db.WithContext(ctx).
		Where("approved = ?", false).
		Order("created_at").
		Find(&societies).Error
	return societies, err
}

// Approve marks a society approved in a single atomic update, recording who
// approved it and when. A missing or soft-deleted society is ErrNotFound.
func (s *SocietyService) Approve(ctx context.Context, adminID, societyID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Model(&models.Society{}).
		Where("id = ?", societyID).
		Updates(map[string]any{
			"approved":    true,
			"approved_at": time.Now().UTC(),
			"approved_by": adminID,
		})
	if res.Error != nil {
		return fmt.Errorf("approve society: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reject soft-deletes a society. The row stays retrievable via AuditByID but
// disappears from every listing.
func (s *SocietyService) Reject(ctx context.Context, societyID uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ?", societyID).Delete(&models.Society{})
	if res.Error != nil {
		return fmt.Errorf("reject society: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AuditByID fetches a society by id including soft-deleted rows.
func (s *SocietyService) AuditByID(ctx context.Context, societyID uuid.UUID) (*models.Society, error) {
	var soc models.Society
	err := s.db.WithContext(ctx).Unscoped().Where("id = ?", societyID).First(&soc).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &soc, nil
}

// Approved returns the approved societies for form select options.
func (s *SocietyService) Approved(ctx context.Context) ([]models.Society, error) {
	var societies []models.Society
	err := s.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("name").
		Find(&societies).Error
	return societies, err
}
