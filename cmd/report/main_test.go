package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const dump = `{
  "pets": [
    {"id": "p1", "name": "Pip", "species": "Worm", "strength": 97, "xp": 97200, "abilities": ["PetXpBoost"]},
    {"id": "p2", "species": "Bee", "strength": 50, "xp": 0, "abilities": ["GoldGranter", "Mystery"]},
    {"id": "p3", "species": "Chicken", "abilities": []}
  ],
  "crops": [{"slot": 1, "species": "Carrot", "scale": 1}]
}`

func writeDump(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.json")
	if err := os.WriteFile(path, []byte(dump), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	return path
}

func TestRun_Text(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-input", writeDump(t)}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Team: 3 pets", "Pip", "Bee", "warning: Bee: unknown_ability Mystery"} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "Garden valuation unavailable") {
		t.Fatalf("garden in the dump should price the gold granter:\n%s", text)
	}
}

func TestRun_TextWithoutMutationAbilities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.json")
	body := `{"pets":[{"id":"p1","species":"Worm","strength":80,"xp":0,"abilities":["PetXpBoost"]}]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write dump: %v", err)
	}
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-input", path}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.String(), "Garden valuation unavailable") {
		t.Fatalf("no pet needs the garden, valuation warning is noise:\n%s", out.String())
	}
}

func TestRun_JSONNearCap(t *testing.T) {
	var out bytes.Buffer
	args := []string{"-input", writeDump(t), "-format", "json", "-near-cap", "5"}
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var report struct {
		Team struct {
			ActivePets int `json:"active_pets"`
		} `json:"team"`
		Pets []struct {
			Pet struct {
				ID string `json:"id"`
			} `json:"pet"`
		} `json:"pets"`
	}
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if report.Team.ActivePets != 3 || len(report.Pets) != 1 || report.Pets[0].Pet.ID != "p1" {
		t.Fatalf("unexpected near-cap report %+v", report)
	}
}

func TestRun_CSV(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-input", writeDump(t), "-format", "csv"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(out.String(), "pet_id,") {
		t.Fatalf("unexpected csv %q", out.String())
	}
}

func TestParseFlags_Errors(t *testing.T) {
	var out bytes.Buffer
	if _, err := parseFlags(nil, &out); !errors.Is(err, errUsage) {
		t.Fatalf("missing input: expected errUsage, got %v", err)
	}
	if _, err := parseFlags([]string{"-input", "x.json", "-format", "xml"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("bad format: expected errUsage, got %v", err)
	}
}
