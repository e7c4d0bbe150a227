package sql

import (
	"strings"

	"github.com/iamahmet/karasuEmlak-sub001/internal/entity"

	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// calculatePagination calculates pagination metrics
func (r *GormRepository) calculatePagination(totalCount int64, page, pageSize int) *entity.Meta {
	if pageSize <= 0 {
		pageSize = 20
	}
	if page <= 0 {
		page = 1
	}

	return &entity.Meta{
		Total:    totalCount,
		Page:     int64(page),
		PageSize: int64(pageSize),
	}
}

// dialectName returns the lowercase GORM dialector name, or "" when unknown.
func (r *GormRepository) dialectName() string {
	if r == nil || r.db == nil || r.db.Dialector == nil {
		return ""
	}
	return strings.ToLower(r.db.Dialector.Name())
}

// sanitizeJSONKey keeps alphanumeric characters only so that JSON path
// expressions built from matcher keys stay inert.
func sanitizeJSONKey(key string) string {
	builder := strings.Builder{}
	builder.Grow(len(key))
	for i := 0; i < len(key); i++ {
		ch := key[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9', ch == '_':
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}
