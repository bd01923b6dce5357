package announce

import "testing"

func TestRegionRepeatsAreDistinct(t *testing.T) {
	var r Region
	if r.Last() != (Announcement{}) {
		t.Fatal("zero region should have no announcement")
	}

	first := r.Announce(Added("Taco al pastor"))
	second := r.Announce(Added("Taco al pastor"))

	if first.Text != "Taco al pastor agregado al carrito" {
		t.Errorf("unexpected text %q", first.Text)
	}
	if first.Text != second.Text {
		t.Error("texts should match")
	}
	if second.Seq <= first.Seq {
		t.Errorf("Seq must increase: %d then %d", first.Seq, second.Seq)
	}
	if r.Last() != second {
		t.Error("Last should return the newest announcement")
	}
}
