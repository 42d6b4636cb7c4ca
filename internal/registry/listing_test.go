package registry

import (
	"path/filepath"
	"testing"
	"time"
)

func TestListing_SaveLoadDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "listing.json")
	l := &Listing{
		AddonRoot: "/addons/demo",
		Entries:   []Entry{{Name: "a.whl", Path: "/addons/demo/wheels/a.whl", Registered: true}},
		ListedAt:  time.Now().UTC().Truncate(time.Second),
	}
	if err := SaveListing(path, l); err != nil {
		t.Fatalf("SaveListing error: %v", err)
	}

	got, err := LoadListing(path, "/addons/demo")
	if err != nil {
		t.Fatalf("LoadListing error: %v", err)
	}
	if got == nil || len(got.Entries) != 1 || got.Entries[0].Name != "a.whl" || !got.Entries[0].Registered {
		t.Fatalf("LoadListing = %+v", got)
	}

	other, err := LoadListing(path, "/addons/other")
	if err != nil || other != nil {
		t.Errorf("listing for another add-on should be ignored, got %+v, %v", other, err)
	}

	if err := DeleteListing(path); err != nil {
		t.Fatalf("DeleteListing error: %v", err)
	}
	if err := DeleteListing(path); err != nil {
		t.Errorf("second DeleteListing error: %v", err)
	}
	if got, err := LoadListing(path, "/addons/demo"); got != nil || err != nil {
		t.Errorf("LoadListing after delete = %+v, %v", got, err)
	}
}
