package normalize

import "testing"

func TestWarningsFieldViews(t *testing.T) {
	var w Warnings
	w.Field("email").Add("bad-addr", "invalid email")
	w.Field("country").Add("Atlantis", "unknown country")

	if w.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", w.Len())
	}
	all := w.All()
	if all[0].Field != "email" || all[1].Field != "country" {
		t.Errorf("field attribution = %q, %q; want email, country", all[0].Field, all[1].Field)
	}

	// A view of a view still appends into the same root.
	w.Field("a").Field("b").Add("x", "reason")
	if w.Len() != 3 {
		t.Fatalf("Len() after nested view = %d, want 3", w.Len())
	}
	if got := w.All()[2].Field; got != "b" {
		t.Errorf("nested view field = %q, want b", got)
	}
}

func TestWarningsNilReceiver(t *testing.T) {
	var w *Warnings
	w.Field("email").Add("x", "reason")
	if w.Len() != 0 {
		t.Errorf("nil collector Len() = %d, want 0", w.Len())
	}
	if w.All() != nil {
		t.Errorf("nil collector All() = %v, want nil", w.All())
	}
}
