package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

type RequestService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      func() time.Time
}

func NewRequestService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, eventBus: eventBus, logger: logger, now: time.Now}
}

func (s *RequestService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *RequestService) CreateRequest(ctx context.Context, userID int64, description string) (*models.ItemRequest, error) {
	req := &models.ItemRequest{Description: description, RequestorID: userID, Created: s.now()}
	if err := domain.ValidateStruct(req); err != nil {
		return nil, err
	}
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		return tx.CreateItemRequest(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		payload := events.RequestEventPayload{RequestID: req.ID, RequestorID: userID}
		if err := s.eventBus.PublishJSON(events.EventRequestCreated, payload); err != nil {
			s.logger.Error().Err(err).Int64("request_id", req.ID).Msg("publish event error")
		}
	}
	return req, nil
}

func (s *RequestService) ListOwnRequests(ctx context.Context, userID int64) ([]*models.ItemRequestView, error) {
	return s.list(ctx, userID, func(tx domain.Tx) ([]*models.ItemRequest, error) {
		return tx.ListItemRequestsByRequestor(ctx, userID)
	})
}

func (s *RequestService) ListOtherRequests(ctx context.Context, userID int64) ([]*models.ItemRequestView, error) {
	return s.list(ctx, userID, func(tx domain.Tx) ([]*models.ItemRequest, error) {
		return tx.ListItemRequestsExcept(ctx, userID)
	})
}

func (s *RequestService) GetRequest(ctx context.Context, userID, requestID int64) (*models.ItemRequestView, error) {
	var view *models.ItemRequestView
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		req, err := requireRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		views, err := attachItems(ctx, tx, []*models.ItemRequest{req})
		if err != nil {
			return err
		}
		view = views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *RequestService) list(
	ctx context.Context, userID int64, load func(tx domain.Tx) ([]*models.ItemRequest, error),
) ([]*models.ItemRequestView, error) {
	var views []*models.ItemRequestView
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		reqs, err := load(tx)
		if err != nil {
			return err
		}
		views, err = attachItems(ctx, tx, reqs)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// attachItems loads the answering items of all requests in one query.
func attachItems(ctx context.Context, tx domain.Tx, reqs []*models.ItemRequest) ([]*models.ItemRequestView, error) {
	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.ID)
	}
	items, err := tx.ListItemsByRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]*models.RequestedItem, len(reqs))
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}

	views := make([]*models.ItemRequestView, 0, len(reqs))
	for _, r := range reqs {
		answered := byRequest[r.ID]
		if answered == nil {
			answered = []*models.RequestedItem{}
		}
		views = append(views, &models.ItemRequestView{ItemRequest: *r, Items: answered})
	}
	return views, nil
}
