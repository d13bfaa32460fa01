package garden

import (
	"testing"
)

const testPrices = `
crops:
  Carrot: 20
  Pumpkin: 3700
color:
  Gold: 25
  Rainbow: 50
weather:
  Wet: 2
  Frozen: 10
`

func mustPrices(t *testing.T) *PriceTable {
	t.Helper()
	p, err := ParsePrices([]byte(testPrices))
	if err != nil {
		t.Fatalf("parse prices: %v", err)
	}
	return p
}

func TestValue(t *testing.T) {
	p := mustPrices(t)

	cases := []struct {
		name string
		crop Crop
		want float64
	}{
		{"plain", Crop{Species: "Carrot", Scale: 1}, 20},
		{"scaled", Crop{Species: "carrot", Scale: 2}, 40},
		{"zero scale counts as one", Crop{Species: "Carrot"}, 20},
		{"gold", Crop{Species: "Carrot", Scale: 1, Mutations: []string{"Gold"}}, 500},
		{"weather stacks additively", Crop{Species: "Carrot", Scale: 1, Mutations: []string{"Wet", "Frozen"}}, 20 * 11},
		{"best color wins", Crop{Species: "Carrot", Scale: 1, Mutations: []string{"Gold", "Rainbow"}}, 1000},
	}
	for _, tc := range cases {
		got, ok := p.Value(tc.crop)
		if !ok || got != tc.want {
			t.Fatalf("%s: got=%v ok=%v want=%v", tc.name, got, ok, tc.want)
		}
	}

	if _, ok := p.Value(Crop{Species: "Moonflower", Scale: 1}); ok {
		t.Fatalf("unpriced species should report false")
	}
}

func TestUplift(t *testing.T) {
	p := mustPrices(t)

	got, ok := p.Uplift(Crop{Species: "Carrot", Scale: 1}, "Gold")
	if !ok || got != 480 {
		t.Fatalf("gold uplift got=%v ok=%v want=480", got, ok)
	}

	got, ok = p.Uplift(Crop{Species: "Carrot", Scale: 1, Mutations: []string{"Gold"}}, "Rainbow")
	if !ok || got != 500 {
		t.Fatalf("gold to rainbow uplift got=%v ok=%v want=500", got, ok)
	}

	if _, ok := p.Uplift(Crop{Species: "Carrot", Scale: 1, Mutations: []string{"Rainbow"}}, "Gold"); ok {
		t.Fatalf("rainbow crop should not be eligible for gold")
	}
	if _, ok := p.Uplift(Crop{Species: "Carrot", Scale: 1}, "Wet"); ok {
		t.Fatalf("weather mutation is not a color")
	}
}

func TestMeanUplift(t *testing.T) {
	p := mustPrices(t)
	crops := []Crop{
		{Slot: 1, Species: "Carrot", Scale: 1},
		{Slot: 2, Species: "Pumpkin", Scale: 1},
		{Slot: 3, Species: "Carrot", Scale: 1, Mutations: []string{"Gold"}},
		{Slot: 4, Species: "Unknown", Scale: 1},
	}

	mean, n := p.MeanUplift(crops, "Gold")
	if n != 2 {
		t.Fatalf("eligible got=%d want=2", n)
	}
	if want := (480.0 + 3700*24) / 2; mean != want {
		t.Fatalf("mean uplift got=%v want=%v", mean, want)
	}

	if mean, n := p.MeanUplift(nil, "Gold"); n != 0 || mean != 0 {
		t.Fatalf("empty garden got mean=%v n=%d", mean, n)
	}
}

func TestDefaultPricesLoad(t *testing.T) {
	p := MustLoadDefaultPrices()
	if !p.IsColor("gold") || !p.IsColor("Rainbow") {
		t.Fatalf("default table should define gold and rainbow")
	}
	if _, ok := p.Value(Crop{Species: "Starweaver", Scale: 1}); !ok {
		t.Fatalf("default table should price Starweaver")
	}
}
