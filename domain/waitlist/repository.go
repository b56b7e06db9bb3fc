package waitlist

import (
	"context"
	"errors"

	"github.com/akeren/resfi-api/internal/models"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WaitlistRepository interface {
	// CreateEntry inserts the entry and returns the stored row, id and timestamps included.
	CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error)
	// GetAllEntries returns every row ordered by id.
	GetAllEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
	// Ping checks the underlying connection pool.
	Ping(ctx context.Context) error
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) CreateEntry(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, error) {
	if entry == nil {
		return nil, apperrors.NewInvalidRequestError("waitlist entry cannot be nil", nil)
	}

	if err := wr.db.WithContext(ctx).Clauses(clause.Returning{}).Create(entry).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, apperrors.NewConflictError(MessageDuplicateEmail, err)
		}
		return nil, apperrors.NewDatabaseError(MessageCreateFailed, err)
	}

	return entry, nil
}

func (wr *waitlistRepository) GetAllEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	entries := make([]*models.WaitlistEntry, 0)

	if err := wr.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(MessageListFailed, err)
	}

	return entries, nil
}

func (wr *waitlistRepository) Ping(ctx context.Context) error {
	sqlDB, err := wr.db.DB()
	if err != nil {
		return apperrors.NewDatabaseError("database handle unavailable", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.NewDatabaseError("database ping failed", err)
	}

	return nil
}

// isDuplicateKey checks the gorm-translated sentinel before the driver errors.
func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
