package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/datasweeper/internal/pkg/pkgerror"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/entity"
	"github.com/shandysiswandi/datasweeper/internal/sweeper/table"
)

func newDataset(id, name string) *entity.Dataset {
	return &entity.Dataset{
		ID:       id,
		FileName: name,
		Format:   entity.FormatCSV,
		Table:    table.FromRecords([]string{"a"}, [][]string{{"1"}, {"1"}}),
	}
}

func TestSessionStore_CreateSession_Duplicate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(0, 0)
	session := entity.Session{ID: "s-1", CreatedAt: 100}

	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession() err = %v", err)
	}

	err := store.CreateSession(ctx, session)
	if err == nil {
		t.Fatal("CreateSession() expected error, got nil")
	}

	var perr *pkgerror.Error
	if !errors.As(err, &perr) {
		t.Fatalf("CreateSession() expected pkgerror.Error, got %T", err)
	}

	if perr.Code() != pkgerror.CodeConflict {
		t.Fatalf("CreateSession() error code = %v, want %v", perr.Code(), pkgerror.CodeConflict)
	}
}

func TestSessionStore_DatasetsKeepUploadOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(4, time.Hour)

	if err := store.CreateSession(ctx, entity.Session{ID: "s-1"}); err != nil {
		t.Fatalf("CreateSession() err = %v", err)
	}

	for _, ds := range []*entity.Dataset{newDataset("d-2", "b.csv"), newDataset("d-1", "a.csv")} {
		if err := store.AddDataset(ctx, "s-1", ds); err != nil {
			t.Fatalf("AddDataset() err = %v", err)
		}
	}

	infos, err := store.ListDatasets(ctx, "s-1")
	if err != nil {
		t.Fatalf("ListDatasets() err = %v", err)
	}

	if len(infos) != 2 || infos[0].ID != "d-2" || infos[1].ID != "d-1" {
		t.Fatalf("ListDatasets() = %+v, want d-2 then d-1", infos)
	}

	if err := store.AddDataset(ctx, "s-1", newDataset("d-1", "again.csv")); err == nil {
		t.Fatal("AddDataset() duplicate expected error, got nil")
	}
}

func TestSessionStore_UpdateAndReadDataset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(4, time.Hour)
	_ = store.CreateSession(ctx, entity.Session{ID: "s-1"})
	_ = store.AddDataset(ctx, "s-1", newDataset("d-1", "a.csv"))

	var removed int
	err := store.UpdateDataset(ctx, "s-1", "d-1", func(ds *entity.Dataset) error {
		removed = ds.Table.DropDuplicates()
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateDataset() err = %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}

	var rows int
	err = store.ReadDataset(ctx, "s-1", "d-1", func(ds *entity.Dataset) error {
		rows = ds.Table.NumRows()
		return nil
	})
	if err != nil {
		t.Fatalf("ReadDataset() err = %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows = %d, want 1", rows)
	}

	sentinel := errors.New("stop")
	err = store.ReadDataset(ctx, "s-1", "d-1", func(*entity.Dataset) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("ReadDataset() err = %v, want callback error", err)
	}
}

func TestSessionStore_NotFound(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(4, time.Hour)
	_ = store.CreateSession(ctx, entity.Session{ID: "s-1"})

	noop := func(*entity.Dataset) error { return nil }

	checks := map[string]error{
		"GetSession":       func() error { _, err := store.GetSession(ctx, "missing"); return err }(),
		"DeleteSession":    store.DeleteSession(ctx, "missing"),
		"AddDataset":       store.AddDataset(ctx, "missing", newDataset("d", "a.csv")),
		"ReadDataset":      store.ReadDataset(ctx, "s-1", "missing", noop),
		"UpdateDataset":    store.UpdateDataset(ctx, "missing", "d", noop),
		"ListDatasets"    : func() error { _, err := store.ListDatasets(ctx, "missing"); return err }(),
	}

	for name, err := range checks {
		if !errors.Is(err, pkgerror.ErrNotFound) {
			t.Fatalf("%s() err = %v, want ErrNotFound", name, err)
		}
	}
}

func TestSessionStore_DeleteSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(4, time.Hour)
	_ = store.CreateSession(ctx, entity.Session{ID: "s-1"})

	if err := store.DeleteSession(ctx, "s-1"); err != nil {
		t.Fatalf("DeleteSession() err = %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}

func TestSessionStore_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(2, time.Hour)

	for _, id := range []string{"s-1", "s-2", "s-3"} {
		if err := store.CreateSession(ctx, entity.Session{ID: id}); err != nil {
			t.Fatalf("CreateSession(%s) err = %v", id, err)
		}
	}

	if _, err := store.GetSession(ctx, "s-1"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetSession(s-1) err = %v, want ErrNotFound", err)
	}
	if _, err := store.GetSession(ctx, "s-3"); err != nil {
		t.Fatalf("GetSession(s-3) err = %v", err)
	}
}

func TestSessionStore_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(4, time.Hour)
	_ = store.CreateSession(ctx, entity.Session{ID: "s-1"})
	_ = store.AddDataset(ctx, "s-1", newDataset("d-1", "a.csv"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.UpdateDataset(ctx, "s-1", "d-1", func(ds *entity.Dataset) error {
				ds.Table.FillMissingWithMean()
				return nil
			})
		}()
		go func() {
			defer wg.Done()
			_, _ = store.ListDatasets(ctx, "s-1")
		}()
	}
	wg.Wait()
}

func TestSessionStore_AccessRenewsIdleTimeout(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSessionStore(4, 300*time.Millisecond)

	if err := store.CreateSession(ctx, entity.Session{ID: "s-1"}); err != nil {
		t.Fatalf("CreateSession() err = %v", err)
	}

	for i := 0; i < 3; i++ {
		time.Sleep(150 * time.Millisecond)
		if _, err := store.ListDatasets(ctx, "s-1"); err != nil {
			t.Fatalf("ListDatasets() after %d idle periods err = %v", i+1, err)
		}
	}

	time.Sleep(450 * time.Millisecond)
	if _, err := store.GetSession(ctx, "s-1"); !errors.Is(err, pkgerror.ErrNotFound) {
		t.Fatalf("GetSession() after idle timeout err = %v, want ErrNotFound", err)
	}
}
