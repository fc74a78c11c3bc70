package sheet

import "testing"

func TestDiffInputChangeForcesEverything(t *testing.T) {
	prev := Settings{Input: "a", Formats: map[string]bool{"png": true}}
	cur := Settings{Input: "b", Formats: map[string]bool{"png": true}}

	cs := Diff(prev, cur)
	if !cs.DoFileTree || !cs.DoImages || !cs.DoImageAll || !cs.DoRectangles {
		t.Fatalf("input change did not force every stage: %+v", cs)
	}
}

func TestDiffPageSizeOnlyForcesRectangles(t *testing.T) {
	prev := Settings{Input: "a", Formats: map[string]bool{"png": true}, PageW: 64, PageH: 64}
	cur := prev
	cur.PageW = 128

	cs := Diff(prev, cur)
	if cs.DoFileTree || cs.DoImages || cs.DoImageAll {
		t.Fatalf("page size change affected upstream stages: %+v", cs)
	}
	if !cs.DoRectangles {
		t.Fatal("page size change did not force DoRectangles")
	}
}

func TestDiffPivotColorOnlyForcesImageAllAndRectangles(t *testing.T) {
	prev := Settings{Input: "a", Formats: map[string]bool{"png": true}, PivotColor: 0x00ff00}
	cur := prev
	cur.PivotColor = 0xff0000

	cs := Diff(prev, cur)
	if cs.DoFileTree || cs.DoImages {
		t.Fatalf("pivot color change affected file/image stages: %+v", cs)
	}
	if !cs.DoImageAll || !cs.DoRectangles {
		t.Fatalf("pivot color change did not force analysis+rectangles: %+v", cs)
	}
}

func TestDiffNoChange(t *testing.T) {
	s := Settings{Input: "a", Formats: map[string]bool{"png": true}, PageW: 64, PageH: 64}
	cs := Diff(s, s)
	if cs.DoFileTree || cs.DoImages || cs.DoImageAll || cs.DoRectangles {
		t.Fatalf("identical settings produced a non-empty change set: %+v", cs)
	}
}
