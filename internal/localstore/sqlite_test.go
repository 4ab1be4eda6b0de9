package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/unclebandit/campaign-studio/internal/model"
)

func TestSQLiteStorage_Items(t *testing.T) {
	ctx := context.Background()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "nested", "local.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	if _, ok, err := st.GetItem(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := st.SetItem(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}
	if err := st.SetItem(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := st.GetItem(ctx, "k")
	if err != nil || !ok || v != "v2" {
		t.Fatalf("got %q ok=%v err=%v", v, ok, err)
	}
	if err := st.RemoveItem(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := st.GetItem(ctx, "k"); ok {
		t.Fatal("item survived RemoveItem")
	}
}

func TestSQLiteStorage_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "local.db")

	st, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	created, err := New(st).CreateCampaign(ctx, model.Campaign{Brand: "Persisted"})
	if err != nil {
		t.Fatal(err)
	}
	st.Close()

	st, err = OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer st.Close()

	got, err := New(st).GetCampaign(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Brand != "Persisted" {
		t.Fatalf("want Persisted, got %q", got.Brand)
	}
}
