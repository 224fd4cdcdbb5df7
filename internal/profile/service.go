package profile

import (
	"time"

	"github.com/gamblor-app/gamblor-backend/internal/pkg/model"
	"github.com/gamblor-app/gamblor-backend/internal/pkg/reject"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProfileService struct {
	Db *gorm.DB
}

// EnsureUser upserts the user row from verified token claims. Identity
// issuance lives outside the engine; this only guarantees a membership
// target exists before a game references it.
func (s *ProfileService) EnsureUser(tx *gorm.DB, id uuid.UUID, email, name string) error {
	now := time.Now().UTC()
	result := tx.Exec(`
		INSERT INTO gamblor_user (id, name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`,
		id, name, email, now, now)
	return result.Error
}

func (s *ProfileService) FindById(id uuid.UUID) (*Profile, *reject.ProblemWithTrace) {
	var user model.User
	result := s.Db.
		Table(model.User{}.TableName()).
		Where("id = ?", id).
		First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.GameNotFoundProblem("user not found"),
			Cause:   result.Error,
		}
	}
	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.UnexpectedProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return &Profile{
		Id:        user.Id,
		Name:      user.Name,
		Email:     user.Email,
		AvatarUrl: user.AvatarUrl,
		CreatedAt: user.CreatedAt,
	}, nil
}
