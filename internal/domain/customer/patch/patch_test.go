package patch

import "testing"

func TestIsEmpty(t *testing.T) {
	if !(Patch{}).IsEmpty() {
		t.Error("zero patch must be empty")
	}

	name := "Acme"
	if (Patch{Name: &name}).IsEmpty() {
		t.Error("patch with a field must not be empty")
	}

	soft := 100.0
	if (Patch{SoftBudget: &soft}).IsEmpty() {
		t.Error("patch with a budget field must not be empty")
	}
}
