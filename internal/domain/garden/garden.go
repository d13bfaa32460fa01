// Package garden prices crops and the value a color mutation would add to
// them. It backs the valuation of abilities whose payout depends on what is
// currently planted.
package garden

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

//go:embed prices.yaml
var pricesYAML []byte

// Crop is one planted slot as reported by the game client.
type Crop struct {
	Slot      int       `json:"slot"`
	Species   string    `json:"species"`
	Scale     float64   `json:"scale"`
	Mutations []string  `json:"mutations,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c Crop) has(mutation string) bool {
	for _, m := range c.Mutations {
		if strings.EqualFold(m, mutation) {
			return true
		}
	}
	return false
}

// PriceTable holds crop base prices and mutation multipliers. Lookups ignore
// case.
type PriceTable struct {
	crops   map[string]float64
	color   map[string]float64
	weather map[string]float64
}

type priceFile struct {
	Crops   map[string]float64 `yaml:"crops"`
	Color   map[string]float64 `yaml:"color"`
	Weather map[string]float64 `yaml:"weather"`
}

func ParsePrices(data []byte) (*PriceTable, error) {
	var f priceFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing price table: %w", err)
	}
	t := &PriceTable{
		crops:   lowerKeys(f.Crops),
		color:   lowerKeys(f.Color),
		weather: lowerKeys(f.Weather),
	}
	for name, m := range t.color {
		if m < 1 {
			return nil, fmt.Errorf("color mutation %s: multiplier %v below 1", name, m)
		}
	}
	return t, nil
}

func LoadDefaultPrices() (*PriceTable, error) {
	return ParsePrices(pricesYAML)
}

func MustLoadDefaultPrices() *PriceTable {
	t, err := LoadDefaultPrices()
	if err != nil {
		panic(err)
	}
	return t
}

func lowerKeys(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// IsColor reports whether mutation is a known color mutation.
func (t *PriceTable) IsColor(mutation string) bool {
	_, ok := t.color[strings.ToLower(mutation)]
	return ok
}

func (t *PriceTable) colorMultiplier(c Crop) float64 {
	best := 1.0
	for _, m := range c.Mutations {
		if v, ok := t.color[strings.ToLower(m)]; ok && v > best {
			best = v
		}
	}
	return best
}

func (t *PriceTable) weatherMultiplier(c Crop) float64 {
	total := 1.0
	for _, m := range c.Mutations {
		if v, ok := t.weather[strings.ToLower(m)]; ok {
			total += v - 1
		}
	}
	return total
}

// Value is the sell price of a crop. The bool is false for species without a
// known base price.
func (t *PriceTable) Value(c Crop) (float64, bool) {
	base, ok := t.crops[strings.ToLower(strings.TrimSpace(c.Species))]
	if !ok {
		return 0, false
	}
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	return base * scale * t.colorMultiplier(c) * t.weatherMultiplier(c), true
}

// Uplift is the value gained by giving c the color mutation. Crops that are
// unpriced or already carry an equal or better color are not eligible.
func (t *PriceTable) Uplift(c Crop, mutation string) (float64, bool) {
	target, ok := t.color[strings.ToLower(mutation)]
	if !ok || c.has(mutation) || t.colorMultiplier(c) >= target {
		return 0, false
	}
	before, ok := t.Value(c)
	if !ok {
		return 0, false
	}

	next := c
	next.Mutations = make([]string, 0, len(c.Mutations)+1)
	for _, m := range c.Mutations {
		if !t.IsColor(m) {
			next.Mutations = append(next.Mutations, m)
		}
	}
	next.Mutations = append(next.Mutations, mutation)
	after, _ := t.Value(next)
	return after - before, true
}

// MeanUplift averages Uplift over every eligible crop, matching a mutation
// that lands on a uniformly random eligible crop.
func (t *PriceTable) MeanUplift(crops []Crop, mutation string) (mean float64, eligible int) {
	gains := make([]float64, 0, len(crops))
	for _, c := range crops {
		if g, ok := t.Uplift(c, mutation); ok {
			gains = append(gains, g)
		}
	}
	if len(gains) == 0 {
		return 0, 0
	}
	return stat.Mean(gains, nil), len(gains)
}
