package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/models"
)

type UserService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewUserService(store domain.Store, logger *zerolog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := domain.ValidateStruct(user); err != nil {
		return nil, err
	}

	created := models.User{Name: user.Name, Email: user.Email}
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		taken, err := tx.ExistsByEmail(ctx, created.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.Conflict("email already in use")
		}
		return duplicateAsConflict(tx.CreateUser(ctx, &created))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("user_id", created.ID).Msg("User created")
	return &created, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error) {
	if err := domain.ValidateStruct(&patch); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		user, err = requireUser(ctx, tx, id)
		if err != nil {
			return err
		}

		if patch.Email != nil && *patch.Email != user.Email {
			taken, err := tx.ExistsByEmail(ctx, *patch.Email)
			if err != nil {
				return err
			}
			if taken {
				return domain.Conflict("email already in use")
			}
			user.Email = *patch.Email
		}
		if patch.Name != nil {
			user.Name = *patch.Name
		}
		return duplicateAsConflict(tx.UpdateUser(ctx, user))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var user *models.User
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		user, err = requireUser(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		var err error
		users, err = tx.ListUsers(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// DeleteUser is idempotent; a user who still owns records cannot be removed.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		return tx.DeleteUser(ctx, id)
	})
	if errors.Is(err, domain.ErrReferencedByRow) {
		return domain.Conflict("user still has items, bookings, comments or requests")
	}
	if err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("User deleted")
	return nil
}

// duplicateAsConflict covers the race between ExistsByEmail and the write.
func duplicateAsConflict(err error) error {
	if errors.Is(err, domain.ErrDuplicateEmail) {
		return domain.Conflict("email already in use")
	}
	return err
}
