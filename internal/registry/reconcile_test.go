package registry

import (
	"reflect"
	"testing"
)

func TestReconcile(t *testing.T) {
	entries := []Entry{
		{Name: "attrs-23.1.0-py3-none-any.whl"},
		{Name: "requests-2.31.0-py3-none-any.whl"},
		{Name: "requests-2.32.3-py3-none-any.whl"},
		{Name: "numpy-1.26.4-cp311-cp311-win_amd64.whl"},
		{Name: "numpy-1.26.4-cp311-cp311-manylinux_2_17_x86_64.whl"},
	}
	manifestEntries := []string{
		"./wheels/requests-2.31.0-py3-none-any.whl",
		"./wheels/requests-2.32.3-py3-none-any.whl",
		"./wheels/numpy-1.26.4-cp311-cp311-win_amd64.whl",
		"./wheels/numpy-1.26.4-cp311-cp311-manylinux_2_17_x86_64.whl",
		"./wheels/gone-1.0-py3-none-any.whl",
		"libs/vendored.whl",
	}

	r := Reconcile(entries, manifestEntries)

	if len(r.Orphans) != 1 || r.Orphans[0].Name != "attrs-23.1.0-py3-none-any.whl" {
		t.Errorf("Orphans = %+v", r.Orphans)
	}
	if !reflect.DeepEqual(r.Dangling, []string{"./wheels/gone-1.0-py3-none-any.whl"}) {
		t.Errorf("Dangling = %v", r.Dangling)
	}
	if !reflect.DeepEqual(r.Foreign, []string{"libs/vendored.whl"}) {
		t.Errorf("Foreign = %v", r.Foreign)
	}
	wantDup := map[string][]string{
		"requests": {"requests-2.31.0-py3-none-any.whl", "requests-2.32.3-py3-none-any.whl"},
	}
	if !reflect.DeepEqual(r.Duplicates, wantDup) {
		t.Errorf("Duplicates = %v", r.Duplicates)
	}
	if r.Clean() {
		t.Error("report should not be clean")
	}
}

func TestReconcile_Clean(t *testing.T) {
	r := Reconcile(
		[]Entry{{Name: "a-1.0-py3-none-any.whl"}},
		[]string{"./wheels/a-1.0-py3-none-any.whl"},
	)
	if !r.Clean() {
		t.Errorf("expected clean report, got %+v", r)
	}
}
