package service

import (
	"context"
	"errors"
	"fmt"

	"shareit/internal/domain"
	"shareit/internal/models"
)

func requireUser(ctx context.Context, tx domain.Tx, id int64) (*models.User, error) {
	user, err := tx.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func requireItem(ctx context.Context, tx domain.Tx, id int64) (*models.Item, error) {
	item, err := tx.GetItem(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("item not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", id, err)
	}
	return item, nil
}

func requireBooking(ctx context.Context, tx domain.Tx, id int64) (*models.Booking, error) {
	booking, err := tx.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return booking, nil
}

func requireRequest(ctx context.Context, tx domain.Tx, id int64) (*models.ItemRequest, error) {
	req, err := tx.GetItemRequest(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load request %d: %w", id, err)
	}
	return req, nil
}
