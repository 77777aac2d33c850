package application

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/oksasatya/go-realty-backend/internal/domain"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
	repo "github.com/oksasatya/go-realty-backend/internal/domain/repository"
)

// activeAssignee loads the user a record is being assigned to and checks it can own records.
func activeAssignee(ctx context.Context, users repo.UserRepository, agentID string) (*entity.User, error) {
	if _, err := uuid.Parse(agentID); err != nil {
		return nil, domain.Validation("agent_id must be a valid id")
	}
	u, err := users.GetByID(ctx, agentID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.Validation("assigned agent does not exist")
		}
		return nil, err
	}
	if !u.IsActive() {
		return nil, domain.Validation("assigned agent is inactive")
	}
	return u, nil
}

// validID reports whether s can be a row id; anything else is treated as a missing row.
func validID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func requireCaller(caller interface{ Anonymous() bool }) error {
	if caller.Anonymous() {
		return domain.ErrInvalidToken
	}
	return nil
}
