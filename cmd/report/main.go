// Command report prints the analytics report for a roster dump written by the
// game bridge.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	gardenbridge "petlens/internal/adapter/garden"
	"petlens/internal/adapter/export"
	filerepo "petlens/internal/adapter/repo/file"
	"petlens/internal/app/aggregate"
	"petlens/internal/app/roster"
	"petlens/internal/app/valuation"
	"petlens/internal/config"
	"petlens/internal/domain/ability"
	"petlens/internal/domain/estimate"
	"petlens/internal/domain/species"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "report:", err)
		os.Exit(1)
	}
}

type options struct {
	configPath string
	input      string
	format     string
	petID      string
	sortBy     string
	nearCap    int
}

var errUsage = errors.New("usage")

func parseFlags(args []string, out io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.configPath, "config", "", "YAML config file (defaults are embedded)")
	fs.StringVar(&o.input, "input", "", "roster dump JSON file")
	fs.StringVar(&o.format, "format", "text", "output format: text, json or csv")
	fs.StringVar(&o.petID, "pet", "", "only report this pet id")
	fs.StringVar(&o.sortBy, "sort", "", "sort pets by time_to_cap or coins_per_hour")
	fs.IntVar(&o.nearCap, "near-cap", -1, "only pets within N levels of their cap")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if strings.TrimSpace(o.input) == "" {
		return options{}, fmt.Errorf("%w: -input is required", errUsage)
	}
	switch o.format {
	case "text", "json", "csv":
	default:
		return options{}, fmt.Errorf("%w: unknown format %q", errUsage, o.format)
	}
	return o, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	o, err := parseFlags(args, out)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}

	src := filerepo.FromPath(o.input)
	var cache *valuation.Cache
	if cfg.Valuation.Enabled {
		cache = valuation.NewCache(valuation.Config{
			Bridge: gardenbridge.NewValuator(gardenbridge.Config{Garden: src}),
			TTL:    cfg.Valuation.TTL,
		})
	}
	uc := roster.UseCase{
		Pets: src,
		Engine: aggregate.Engine{
			Abilities: ability.MustLoadCatalog(),
			Species:   species.MustLoadDefault(),
			Valuation: cache,
			Options:   opts,
		},
	}

	req := roster.Request{PetID: o.petID, SortBy: roster.SortKey(o.sortBy)}
	if o.nearCap >= 0 {
		req.NearCapWithin = &o.nearCap
	}
	resp, err := uc.Execute(ctx, req)
	if err != nil {
		return err
	}

	switch o.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp.Report)
	case "csv":
		return export.Write(out, resp.Report)
	}
	return writeText(out, resp.Report)
}

func writeText(out io.Writer, r aggregate.Report) error {
	fmt.Fprintf(out, "Team: %d pets, %s XP/h each (base %s + bonus %s), %.1f%% chance of an XP proc per minute\n",
		r.Team.ActivePets,
		humanize.Commaf(round1(r.Team.XPPerHourPerPet)),
		humanize.Commaf(r.Team.BaseXPPerHour),
		humanize.Commaf(round1(r.Team.BonusXPPerHour)),
		r.Team.ChanceAtLeastOnePerMinute*100,
	)
	if r.ValuationStatus() == aggregate.ValuationUnavailable {
		fmt.Fprintln(out, "Garden valuation unavailable; mutation abilities are unpriced.")
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PET\tSPECIES\tSTR\tLEVELS LEFT\tTO CAP\tFEEDS TO CAP\tCOINS/H\tPROCS/H")
	for _, b := range r.Pets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			b.DisplayName,
			b.Pet.Species,
			optionalInt(b.Pet.Strength),
			levelsLeft(b),
			formatEstimate(b.TimeToCap),
			optionalInt(b.FeedsToCap.Feeds),
			optionalCoins(b.Totals.CoinsPerHour),
			humanize.FormatFloat("#,###.##", b.Totals.ProcsPerHour),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, b := range r.Pets {
		for _, issue := range b.Issues {
			fmt.Fprintf(out, "warning: %s: %s %s\n", b.DisplayName, issue.Kind, strings.TrimSpace(issue.Subject+" "+issue.Detail))
		}
		for _, a := range b.Abilities {
			if !a.Resolved && len(a.Suggestions) > 0 {
				fmt.Fprintf(out, "  %q unknown, did you mean %s?\n", a.Raw, strings.Join(a.Suggestions, ", "))
			}
		}
	}
	return nil
}

func levelsLeft(b aggregate.Bundle) string {
	if !b.Progression.Available {
		return "?"
	}
	return fmt.Sprint(b.Progression.LevelsRemaining)
}

func formatEstimate(e estimate.Estimate) string {
	switch e.Status {
	case estimate.StatusAtCap:
		return "capped"
	case estimate.StatusIndeterminate:
		return "never"
	case estimate.StatusUnavailable:
		return "?"
	}
	d, _ := e.Duration()
	return d.Round(time.Minute).String()
}

func optionalInt(v *int) string {
	if v == nil {
		return "?"
	}
	return humanize.Comma(int64(*v))
}

func optionalCoins(v *float64) string {
	if v == nil {
		return "-"
	}
	return humanize.SIWithDigits(*v, 2, "")
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
