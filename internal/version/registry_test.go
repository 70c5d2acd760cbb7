package version

import (
	"errors"
	"testing"

	"github.com/danmuck/verbridge/internal/testutil/testlog"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	for _, v := range []Version{
		{ID: "v3", Ordinal: 2, Label: "Release 3"},
		{ID: "v1", Ordinal: 0, Label: "Release 1"},
		{ID: "v2", Ordinal: 1, Label: "Release 2"},
	} {
		if err := r.Register(v); err != nil {
			t.Fatalf("register %s: %v", v.ID, err)
		}
	}
	return r
}

func TestRegisterDuplicateOrdinal(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	err := r.Register(Version{ID: "v2b", Ordinal: 1})
	var dup DuplicateVersionError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateVersionError, got %v", err)
	}
	if dup.Existing != "v2" {
		t.Fatalf("unexpected existing holder: %+v", dup)
	}
}

func TestRegisterDuplicateID(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	var dup DuplicateVersionError
	if err := r.Register(Version{ID: "v1", Ordinal: 9}); !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateVersionError, got %v", err)
	}
}

func TestAllIsOrdinalOrdered(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	all := r.All()
	if len(all) != 3 || all[0].ID != "v1" || all[1].ID != "v2" || all[2].ID != "v3" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if ord, err := r.OrdinalOf("v3"); err != nil || ord != 2 {
		t.Fatalf("ordinalOf v3 got=%d err=%v", ord, err)
	}
	if _, err := r.OrdinalOf("nope"); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
}

func TestRangeInclusiveAndInvalid(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	got, err := r.Range("v1", "v2")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if len(got) != 2 || got[0].ID != "v1" || got[1].ID != "v2" {
		t.Fatalf("unexpected range: %+v", got)
	}
	single, err := r.Range("v2", "v2")
	if err != nil || len(single) != 1 {
		t.Fatalf("single range got=%+v err=%v", single, err)
	}
	var inv InvalidRangeError
	if _, err := r.Range("v3", "v1"); !errors.As(err, &inv) {
		t.Fatalf("expected InvalidRangeError, got %v", err)
	}
}

func TestWalkDescending(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	path, err := r.Walk("v3", "v1")
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	if len(path) != 3 || path[0].ID != "v3" || path[2].ID != "v1" {
		t.Fatalf("unexpected walk: %+v", path)
	}
	if !r.Adjacent("v2", "v3") || r.Adjacent("v1", "v3") {
		t.Fatalf("adjacency mismatch")
	}
}

func TestRegisterAfterFreeze(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	r.Freeze()
	r.Freeze()
	var late LateRegistrationError
	if err := r.Register(Version{ID: "v4", Ordinal: 3}); !errors.As(err, &late) {
		t.Fatalf("expected LateRegistrationError, got %v", err)
	}
	if late.Registry != "version" || late.Item != "v4" {
		t.Fatalf("unexpected late error: %+v", late)
	}
}

func TestResolveReportsUnknownWithoutPanicking(t *testing.T) {
	testlog.Start(t)
	r := newTestRegistry(t)
	v, err := r.Resolve(" v2 ")
	if err != nil || v.Ordinal != 1 {
		t.Fatalf("expected v2 at ordinal 1, got %+v err=%v", v, err)
	}
	if _, err := r.Resolve("v9"); !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
}
