package waitlist

import (
	"context"
	"errors"
	"time"

	"github.com/akeren/waitlist-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WaitlistRepository interface {
	// FindByEmail looks up an entry by its normalised email.
	FindByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error)
	// Upsert creates the entry or, when the email exists, updates name, role
	// and source only. created reports which happened.
	Upsert(ctx context.Context, cmd UpsertCommand) (entry *models.WaitlistEntry, created bool, err error)
	// CountAll returns the number of entries.
	CountAll(ctx context.Context) (int64, error)
	// CountBefore counts entries created strictly before t.
	CountBefore(ctx context.Context, t time.Time) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	CountEarlyAdopters(ctx context.Context) (int64, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) FindByEmail(ctx context.Context, email string) (*models.WaitlistEntry, error) {
	var entry models.WaitlistEntry

	if err := wr.db.WithContext(ctx).Where("email = ?", email).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewEntryNotFoundError()
		}
		return nil, newStoreError(err)
	}

	return &entry, nil
}

const insertSavepoint = "waitlist_insert"

func (wr *waitlistRepository) Upsert(ctx context.Context, cmd UpsertCommand) (*models.WaitlistEntry, bool, error) {
	var (
		entry   models.WaitlistEntry
		created bool
	)

	err := wr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.SavePoint(insertSavepoint).Error; err != nil {
			return err
		}

		candidate := models.WaitlistEntry{
			Email:          cmd.Email,
			Name:           cmd.Name,
			Role:           cmd.Role,
			Source:         cmd.Source,
			IsEarlyAdopter: cmd.IsEarlyAdopter,
			IPAddress:      cmd.IPAddress,
			IsInvited:      true,
		}

		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&candidate)

		switch {
		case result.Error == nil && result.RowsAffected == 1:
			created = true
		case result.Error == nil || isDuplicateKey(result.Error):
			// Lost the race to a concurrent insert, or the row already
			// existed. Either way the existing entry is updated.
			if err := tx.RollbackTo(insertSavepoint).Error; err != nil {
				return err
			}
			update := tx.Model(&models.WaitlistEntry{}).
				Where("email = ?", cmd.Email).
				Updates(map[string]interface{}{
					"name":   cmd.Name,
					"role":   cmd.Role,
					"source": cmd.Source,
				})
			if update.Error != nil {
				return update.Error
			}
		default:
			return result.Error
		}

		// Re-read so CreatedAt carries the precision the database stored.
		return tx.Where("email = ?", cmd.Email).First(&entry).Error
	})
	if err != nil {
		return nil, false, newStoreError(err)
	}

	return &entry, created, nil
}

func (wr *waitlistRepository) CountAll(ctx context.Context) (int64, error) {
	return wr.count(ctx, nil)
}

func (wr *waitlistRepository) CountBefore(ctx context.Context, t time.Time) (int64, error) {
	return wr.count(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("created_at < ?", t.UTC())
	})
}

func (wr *waitlistRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	return wr.count(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("role = ?", role)
	})
}

func (wr *waitlistRepository) CountEarlyAdopters(ctx context.Context) (int64, error) {
	return wr.count(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("is_early_adopter = ?", true)
	})
}

func (wr *waitlistRepository) count(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64

	q := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{})
	if scope != nil {
		q = q.Scopes(scope)
	}

	if err := q.Count(&n).Error; err != nil {
		return 0, newStoreError(err)
	}

	return n, nil
}
