package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/render"
)

func TestHiddenFields_DedupesAndSorts(t *testing.T) {
	got := render.HiddenFields(
		render.VersionField("version", 3),
		render.CSRFToken(" _csrf ", "token123"),
		render.Hidden("  ", "skip"),
		render.VersionField("version", 4),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}

	if got := render.HiddenFields(render.Hidden("", "x")); got != nil {
		t.Fatalf("expected nil for unnamed fields, got %v", got)
	}
}
