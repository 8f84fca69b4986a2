package directory

import "testing"

func TestNormalizeEmployeeNo(t *testing.T) {
	cases := map[string]string{
		"  fis0042 ": "FIS0042",
		"INT007":     "INT007",
		"fis-12a":    "FIS-12A",
	}
	for in, want := range cases {
		if got := NormalizeEmployeeNo(in); got != want {
			t.Fatalf("NormalizeEmployeeNo(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestValidSlot(t *testing.T) {
	for _, slot := range append(NamedSlots, SlotOther) {
		if !ValidSlot(slot) {
			t.Fatalf("expected slot %q to be valid", slot)
		}
	}
	if ValidSlot("payslip") {
		t.Fatal("expected unknown slot to be rejected")
	}
}
