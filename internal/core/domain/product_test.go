package domain

import (
	"reflect"
	"testing"
)

func TestParseTags(t *testing.T) {
	cases := map[string][]string{
		"":                   {},
		" , ,":               {},
		"denim":              {"denim"},
		" denim , jeans,,x ": {"denim", "jeans", "x"},
	}
	for in, want := range cases {
		got := ParseTags(in)
		if got == nil || !reflect.DeepEqual(got, want) {
			t.Errorf("ParseTags(%q) = %#v, want %#v", in, got, want)
		}
	}
}

func TestProductPatch(t *testing.T) {
	p := &Product{Title: "Lamp", Price: 10, Tags: []string{"light"}}

	if !(ProductPatch{}).Empty() {
		t.Fatal("zero patch must be empty")
	}

	zero := 0.0
	tags := []string{"desk"}
	patch := ProductPatch{Price: &zero, Tags: &tags}
	if patch.Empty() {
		t.Fatal("patch with fields must not be empty")
	}
	patch.Apply(p)

	if p.Price != 0 || p.Title != "Lamp" || !reflect.DeepEqual(p.Tags, []string{"desk"}) {
		t.Fatalf("unexpected product after patch: %+v", p)
	}
	tags[0] = "mutated"
	if p.Tags[0] != "desk" {
		t.Error("patched tags must not alias the patch slice")
	}
}

func TestProduct_OwnershipAndEarnings(t *testing.T) {
	p := Product{SellerID: "s1", Price: 2.5, SoldCount: 4}

	if !p.OwnedBy("s1") || p.OwnedBy("s2") || (&Product{}).OwnedBy("") {
		t.Error("unexpected ownership result")
	}
	if p.Earnings() != 10 {
		t.Errorf("earnings: got %v", p.Earnings())
	}
}
