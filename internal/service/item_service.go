package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"
)

const defaultCommentGrace = time.Second

type ItemService struct {
	store        domain.Store
	eventBus     domain.EventPublisher
	commentGrace time.Duration
	logger       *zerolog.Logger
	now          func() time.Time
}

// NewItemService builds the item service. A booker may comment once their approved booking
// ended at least commentGrace ago.
func NewItemService(store domain.Store, eventBus domain.EventPublisher, commentGrace time.Duration, logger *zerolog.Logger) *ItemService {
	if commentGrace <= 0 {
		commentGrace = defaultCommentGrace
	}
	return &ItemService{
		store:        store,
		eventBus:     eventBus,
		commentGrace: commentGrace,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *ItemService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *ItemService) CreateItem(ctx context.Context, userID int64, item *models.Item) (*models.Item, error) {
	if err := domain.ValidateStruct(item); err != nil {
		return nil, err
	}

	created := *item
	created.ID = 0
	created.OwnerID = userID

	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if created.RequestID != nil {
			if _, err := requireRequest(ctx, tx, *created.RequestID); err != nil {
				return err
			}
		}
		return tx.CreateItem(ctx, &created)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", created.ID).Int64("owner_id", userID).Msg("Item created")
	s.publish(events.EventItemCreated, itemPayload(&created))
	return &created, nil
}

// UpdateItem applies patch to an item owned by userID. Items of other owners look missing.
func (s *ItemService) UpdateItem(ctx context.Context, userID, itemID int64, patch models.ItemPatch) (*models.Item, error) {
	if err := domain.ValidateStruct(&patch); err != nil {
		return nil, err
	}

	var item *models.Item
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		var err error
		item, err = requireItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if item.OwnerID != userID {
			return domain.NotFound("only the owner can edit the item")
		}

		if patch.Name != nil {
			item.Name = *patch.Name
		}
		if patch.Description != nil {
			item.Description = *patch.Description
		}
		if patch.Available != nil {
			item.Available = *patch.Available
		}
		return tx.UpdateItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.EventItemUpdated, itemPayload(item))
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, userID, itemID int64) (*models.ItemView, error) {
	now := s.now()
	var view *models.ItemView

	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		item, err := requireItem(ctx, tx, itemID)
		if err != nil {
			return err
		}
		view, err = s.buildView(ctx, tx, item, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (s *ItemService) ListOwnerItems(ctx context.Context, userID int64) ([]*models.ItemView, error) {
	now := s.now()
	var views []*models.ItemView

	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		items, err := tx.ListItemsByOwner(ctx, userID)
		if err != nil {
			return err
		}
		views, err = s.buildViews(ctx, tx, items, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// Search returns available items whose name or description contains text.
func (s *ItemService) Search(ctx context.Context, userID int64, text string) ([]*models.Item, error) {
	items := []*models.Item{}
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if isBlank(text) {
			return nil
		}
		var err error
		items, err = tx.SearchItems(ctx, text, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// SearchListings matches like Search without the availability filter and enriches each hit.
func (s *ItemService) SearchListings(ctx context.Context, userID int64, text string) ([]*models.ItemView, error) {
	now := s.now()
	views := []*models.ItemView{}
	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		if _, err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if isBlank(text) {
			return nil
		}
		items, err := tx.SearchItems(ctx, text, false)
		if err != nil {
			return err
		}
		views, err = s.buildViews(ctx, tx, items, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// CreateComment requires an approved booking of the item by userID that has already ended.
func (s *ItemService) CreateComment(ctx context.Context, userID, itemID int64, text string) (*models.Comment, error) {
	if err := domain.RequireText("text", text); err != nil {
		return nil, err
	}

	now := s.now()
	var comment *models.Comment

	err := s.store.InTx(ctx, func(tx domain.Tx) error {
		author, err := requireUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := requireItem(ctx, tx, itemID); err != nil {
			return err
		}

		rented, err := tx.HasApprovedBookingEndedBefore(ctx, userID, itemID, now.Add(-s.commentGrace))
		if err != nil {
			return err
		}
		if !rented {
			return domain.Validation("rental not found or not yet completed")
		}

		comment = &models.Comment{
			Text:       text,
			ItemID:     itemID,
			AuthorID:   userID,
			AuthorName: author.Name,
			Created:    now,
		}
		return tx.CreateComment(ctx, comment)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Int64("author_id", userID).Msg("Comment created")
	s.publish(events.EventCommentCreated, events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    itemID,
		AuthorID:  userID,
	})
	return comment, nil
}

func (s *ItemService) buildViews(
	ctx context.Context, tx domain.Tx, items []*models.Item, viewerID int64, now time.Time,
) ([]*models.ItemView, error) {
	views := make([]*models.ItemView, 0, len(items))
	for _, item := range items {
		view, err := s.buildView(ctx, tx, item, viewerID, now)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// buildView attaches comments for every viewer and the booking summary for the owner only.
func (s *ItemService) buildView(
	ctx context.Context, tx domain.Tx, item *models.Item, viewerID int64, now time.Time,
) (*models.ItemView, error) {
	comments, err := tx.ListCommentsByItem(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	view := &models.ItemView{Item: *item, Comments: comments}

	if item.OwnerID != viewerID {
		return view, nil
	}
	if view.LastBooking, err = tx.LastApprovedBooking(ctx, item.ID, now); err != nil {
		return nil, err
	}
	if view.NextBooking, err = tx.NextApprovedBooking(ctx, item.ID, now); err != nil {
		return nil, err
	}
	return view, nil
}

func itemPayload(item *models.Item) events.ItemEventPayload {
	return events.ItemEventPayload{
		ItemID:    item.ID,
		OwnerID:   item.OwnerID,
		Available: item.Available,
		RequestID: item.RequestID,
	}
}

func (s *ItemService) publish(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

// isBlank reports search text that matches nothing.
func isBlank(text string) bool {
	return domain.RequireText("text", text) != nil
}
