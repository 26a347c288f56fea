package pagination

import (
	"math"
	"testing"

	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   Params
		want Params
	}{
		{Params{}, Params{Page: 1, Limit: 10}},
		{Params{Page: -3, Limit: -1}, Params{Page: 1, Limit: 1}},
		{Params{Page: 4, Limit: 25}, Params{Page: 4, Limit: 25}},
		{Params{Page: 1, Limit: 1000}, Params{Page: 1, Limit: MaxLimit}},
		{Params{Page: math.MaxInt, Limit: 10}, Params{Page: MaxPage, Limit: 10}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Errorf("Normalize(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := (Params{Page: 3, Limit: 20}).Offset(); got != 40 {
		t.Errorf("Offset = %d, want 40", got)
	}
	if got := (Params{}).Offset(); got != 0 {
		t.Errorf("Offset of defaults = %d, want 0", got)
	}
}

func TestOffset_HugePage(t *testing.T) {
	for _, page := range []int{1<<62 + 1, math.MaxInt, MaxPage + 1} {
		for _, limit := range []int{1, 10, MaxLimit} {
			got := (Params{Page: page, Limit: limit}).Offset()
			if got < 0 {
				t.Errorf("Offset(page=%d, limit=%d) = %d, want >= 0", page, limit, got)
			}
		}
	}
}

func TestWindow_HugePage(t *testing.T) {
	got := Window([]int{1, 2, 3}, Params{Page: 1<<62 + 1, Limit: 10})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	m := NewMeta(Params{Page: 1<<62 + 1, Limit: 10}, 3)
	if m.Page != MaxPage || m.TotalPages != 1 {
		t.Errorf("NewMeta = %+v", m)
	}
}

func TestNewMeta(t *testing.T) {
	got := NewMeta(Params{Page: 2, Limit: 1}, 3)
	want := Meta{Page: 2, Limit: 1, Total: 3, TotalPages: 3}
	if got != want {
		t.Errorf("NewMeta = %+v, want %+v", got, want)
	}
	if m := NewMeta(Params{}, 0); m.TotalPages != 0 {
		t.Errorf("empty set TotalPages = %d, want 0", m.TotalPages)
	}
	if m := NewMeta(Params{Limit: 10}, 21); m.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", m.TotalPages)
	}
}

func TestWindow_PastEnd(t *testing.T) {
	items := []int{1, 2, 3}
	got := Window(items, Params{Page: 5, Limit: 2})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestWindow_ExactSlices(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(0, 500).Draw(t, "total")
		limit := rapid.IntRange(1, MaxLimit).Draw(t, "limit")
		items := make([]int, total)
		for i := range items {
			items[i] = i
		}

		meta := NewMeta(Params{Page: 1, Limit: limit}, total)
		seen := 0
		for page := 1; page <= meta.TotalPages; page++ {
			got := Window(items, Params{Page: page, Limit: limit})
			for i, v := range got {
				if v != seen+i {
					t.Fatalf("page %d item %d = %d, want %d", page, i, v, seen+i)
				}
			}
			if page == meta.TotalPages {
				want := total % limit
				if want == 0 {
					want = limit
				}
				if len(got) != want {
					t.Fatalf("last page size = %d, want %d", len(got), want)
				}
			}
			seen += len(got)
		}
		if seen != total {
			t.Fatalf("pages covered %d items, want %d", seen, total)
		}
		if extra := Window(items, Params{Page: meta.TotalPages + 1, Limit: limit}); len(extra) != 0 {
			t.Fatalf("page past end returned %d items", len(extra))
		}
	})
}
