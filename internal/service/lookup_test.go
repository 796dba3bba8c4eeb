package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// stubTx fails every user access with err; other methods are unused.
type stubTx struct {
	domain.Tx
	err error
}

func (s stubTx) GetUser(context.Context, int64) (*models.User, error) { return nil, s.err }

func (s stubTx) DeleteUser(context.Context, int64) error { return s.err }

type stubStore struct {
	tx domain.Tx
}

func (s stubStore) InTx(_ context.Context, fn func(tx domain.Tx) error) error { return fn(s.tx) }

func (s stubStore) Ping(context.Context) error { return nil }

func TestStoreSentinelsTranslated(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	svc := NewUserService(stubStore{tx: stubTx{err: fmt.Errorf("lookup: %w", domain.ErrNotFound)}}, &logger)
	_, err := svc.GetUser(ctx, 1)
	requireKind(t, err, domain.KindNotFound)
	assert.EqualError(t, err, "user not found")

	svc = NewUserService(stubStore{tx: stubTx{err: domain.ErrReferencedByRow}}, &logger)
	err = svc.DeleteUser(ctx, 1)
	requireKind(t, err, domain.KindConflict)

	svc = NewUserService(stubStore{tx: stubTx{err: errors.New("disk full")}}, &logger)
	_, err = svc.GetUser(ctx, 1)
	requireKind(t, err, domain.KindInternal)
}
