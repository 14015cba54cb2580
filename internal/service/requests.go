package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/erazemk/shareit/internal/model"
	"github.com/erazemk/shareit/internal/storage"
)

// Requests records what users are looking for and which items answer it.
type Requests struct {
	store storage.Store
	clock Clock
}

// Create records a request by userID.
func (s *Requests) Create(ctx context.Context, userID int64, description string) (*model.ItemRequest, error) {
	description = strings.TrimSpace(description)
	if err := requireText("description", description); err != nil {
		return nil, err
	}

	r := &model.ItemRequest{Description: description, RequesterID: userID, CreatedAt: s.clock.Now()}
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := getUser(ctx, tx, userID); err != nil {
			return err
		}
		return tx.CreateRequest(ctx, r)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("item request created", "request_id", r.ID, "requester_id", userID)
	return r, nil
}

// ListOwn returns userID's requests, newest first, with their items.
func (s *Requests) ListOwn(ctx context.Context, userID int64) ([]model.RequestView, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.ListRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// ListOthers returns a page of other users' requests, newest first.
func (s *Requests) ListOthers(ctx context.Context, userID int64, page model.Page) ([]model.RequestView, error) {
	if err := checkPage(page); err != nil {
		return nil, err
	}
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.ListRequestsExcept(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.withItems(ctx, requests)
}

// Get returns one request with its items.
func (s *Requests) Get(ctx context.Context, userID, requestID int64) (*model.RequestView, error) {
	if _, err := getUser(ctx, s.store, userID); err != nil {
		return nil, err
	}
	r, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, notFound("item request %d not found", requestID)
	}

	views, err := s.withItems(ctx, []model.ItemRequest{*r})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Requests) withItems(ctx context.Context, requests []model.ItemRequest) ([]model.RequestView, error) {
	views := make([]model.RequestView, len(requests))
	if len(requests) == 0 {
		return views, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}
	items, err := s.store.ListItemsForRequests(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]model.Item)
	for _, it := range items {
		byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
	}

	for i, r := range requests {
		v := model.RequestView{ItemRequest: r, Items: byRequest[r.ID]}
		if v.Items == nil {
			v.Items = []model.Item{}
		}
		views[i] = v
	}
	return views, nil
}
