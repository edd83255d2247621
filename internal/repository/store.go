package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/pkg/database"
)

// GormStore implements Store on a single *gorm.DB, which is either the pool or a transaction.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() UserRepository {
	return NewGormUserRepository(s.db)
}

func (s *GormStore) Relationships() RelationshipRepository {
	return NewGormRelationshipRepository(s.db)
}

func (s *GormStore) Content() ContentRepository {
	return NewGormContentRepository(s.db)
}

// WithinTx runs fn inside a database transaction. Nested calls use savepoints.
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}

// Models are the tables owned or read by the social graph.
func Models() []interface{} {
	return []interface{}{
		&domain.UserModel{},
		&domain.FollowModel{},
		&domain.BlockModel{},
		&domain.FollowRequestModel{},
		&domain.WatchListModel{},
		&domain.WatchListItemModel{},
		&domain.ReviewModel{},
		&domain.UserMediaStatusModel{},
	}
}

// pendingRequestIndexDDL stays on one line: the sqlite migrator re-parses stored index DDL
// on every AutoMigrate.
const pendingRequestIndexDDL = "CREATE UNIQUE INDEX IF NOT EXISTS uidx_follow_requests_pending ON follow_requests (requester_id, target_id) WHERE status = 'PENDING'"

// Migrate creates the schema and the partial unique index that allows one PENDING
// request per (requester, target). MySQL has no partial indexes; there the in-transaction
// existence check is the only guard.
func Migrate(db *gorm.DB, driver string) error {
	if err := database.AutoMigrate(db, Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if driver == database.DriverMySQL {
		return nil
	}

	if err := db.Exec(pendingRequestIndexDDL).Error; err != nil {
		return fmt.Errorf("create partial unique index uidx_follow_requests_pending: %w", err)
	}
	return nil
}

// Ensure interface is satisfied at compile time.
var _ Store = (*GormStore)(nil)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isUniqueViolation reports whether err is a unique-constraint violation.
// The database package enables TranslateError, which maps these to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
