package service

import (
	"context"
	"testing"

	"github.com/erazemk/shareit/internal/model"
)

func TestItemRequestFlow(t *testing.T) {
	f := newFixture(t, Options{})
	ctx := context.Background()

	ana := f.user(t, "ana")
	bor := f.user(t, "bor")

	_, err := f.Requests.Create(ctx, 999, "ladder")
	expectCode(t, err, ErrNotFound)
	_, err = f.Requests.Create(ctx, ana.ID, " ")
	expectCode(t, err, ErrInvalidRequest)

	ladder, err := f.Requests.Create(ctx, ana.ID, "Need a ladder")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.clock.Advance(day)
	tent, _ := f.Requests.Create(ctx, ana.ID, "Need a tent")
	f.clock.Advance(day)
	bike, _ := f.Requests.Create(ctx, bor.ID, "Need a bike")

	offered, err := f.Items.Create(ctx, bor.ID, NewItem{
		Name: "Ladder", Description: "3m", Available: true, RequestID: &ladder.ID,
	})
	if err != nil {
		t.Fatalf("Create item for request: %v", err)
	}

	own, err := f.Requests.ListOwn(ctx, ana.ID)
	if err != nil {
		t.Fatalf("ListOwn: %v", err)
	}
	if len(own) != 2 || own[0].ID != tent.ID || own[1].ID != ladder.ID {
		t.Fatalf("expected newest first, got %+v", own)
	}
	if len(own[0].Items) != 0 {
		t.Errorf("tent request has items %+v", own[0].Items)
	}
	if len(own[1].Items) != 1 || own[1].Items[0].ID != offered.ID {
		t.Errorf("ladder request items %+v", own[1].Items)
	}

	others, err := f.Requests.ListOthers(ctx, ana.ID, model.Page{Limit: 20})
	if err != nil {
		t.Fatalf("ListOthers: %v", err)
	}
	if len(others) != 1 || others[0].ID != bike.ID {
		t.Errorf("unexpected others %+v", others)
	}

	forBor, _ := f.Requests.ListOthers(ctx, bor.ID, model.Page{Offset: 1, Limit: 1})
	if len(forBor) != 1 || forBor[0].ID != ladder.ID {
		t.Errorf("unexpected page %+v", forBor)
	}

	got, err := f.Requests.Get(ctx, bor.ID, ladder.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Description != "Need a ladder" || len(got.Items) != 1 {
		t.Errorf("unexpected request %+v", got)
	}

	_, err = f.Requests.Get(ctx, bor.ID, 999)
	expectCode(t, err, ErrNotFound)
	_, err = f.Requests.Get(ctx, 999, ladder.ID)
	expectCode(t, err, ErrNotFound)
	_, err = f.Requests.ListOthers(ctx, ana.ID, model.Page{Limit: -1})
	expectCode(t, err, ErrInvalidRequest)
}
