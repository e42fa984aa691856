package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/logger"
	"github.com/rac-reallocation/internal/repository/csvroster"
	"github.com/rac-reallocation/internal/simulation"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "simulate",
		Usage: "run a train journey offline from CSV exports and print the per-station reallocation report",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "stations", Usage: "stations CSV export", Required: true},
			&cli.StringFlag{Name: "passengers", Usage: "passengers CSV export", Required: true},
			&cli.StringFlag{Name: "train", Usage: "train number", Required: true},
			&cli.StringFlag{Name: "name", Usage: "train name"},
			&cli.StringFlag{Name: "date", Usage: "journey date, YYYY-MM-DD"},
			&cli.StringFlag{Name: "mode", Value: string(domain.ModeAuto), Usage: "AUTO or APPROVAL"},
			&cli.IntFlag{Name: "sleeper", Value: 9, Usage: "number of sleeper coaches"},
			&cli.IntFlag{Name: "ac3", Value: 0, Usage: "number of 3-tier AC coaches"},
			&cli.Float64Flag{Name: "min-distance", Value: 70, Usage: "minimum journey distance in km for an upgrade"},
			&cli.StringSliceFlag{Name: "no-show", Usage: "PNR to mark as no-show before departure (repeatable)"},
			&cli.StringFlag{Name: "approve-as", Usage: "approve every offer as this TTE (APPROVAL mode)"},
			&cli.BoolFlag{Name: "json", Usage: "print the full report as JSON"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "log level"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log, err := logger.New(logger.Options{Level: c.String("log-level")})
	if err != nil {
		return err
	}
	defer log.Sync()

	mode := domain.ReallocationMode(strings.ToUpper(c.String("mode")))
	if mode != domain.ModeAuto && mode != domain.ModeApproval {
		return fmt.Errorf("invalid mode %q: expected AUTO or APPROVAL", c.String("mode"))
	}

	opts := engine.DefaultOptions()
	opts.Mode = mode
	opts.MinJourneyDistanceKm = c.Float64("min-distance")

	runner := simulation.NewRunner(engine.New(opts, log), csvroster.NewRosterRepository(log), log)
	report, err := runner.Run(c.Context, simulation.Config{
		TrainNo:            c.String("train"),
		TrainName:          c.String("name"),
		JourneyDate:        c.String("date"),
		StationsPath:       c.String("stations"),
		PassengersPath:     c.String("passengers"),
		SleeperCoaches:     c.Int("sleeper"),
		ThreeTierACCoaches: c.Int("ac3"),
		NoShows:            c.StringSlice("no-show"),
		ApproveAs:          c.String("approve-as"),
	})
	if err != nil {
		log.Error("Simulation failed", zap.Error(err))
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return printReport(c.App.Writer, report)
}

func printReport(out io.Writer, report *simulation.Report) error {
	fmt.Fprintf(out, "Train %s %s (%s), mode %s\n", report.Train.TrainNo, report.Train.TrainName, report.Train.JourneyDate, report.Train.Mode)
	fmt.Fprintf(out, "Loaded: %d placed, %d queued, %d unplaced, %d rejected\n\n",
		report.Init.Placed, report.Init.Queued, report.Init.Unplaced, len(report.Init.Rejected))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATION\tDEBOARDED\tNO-SHOWS\tBOARDED\tUPGRADED\tOFFERED\tAPPROVED\tONBOARD\tRAC LEFT")
	for _, st := range report.Stations {
		a := st.Arrival
		approved := 0
		if st.Approval != nil {
			approved = st.Approval.TotalApproved
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
			st.Station.Code,
			len(a.Deboarded),
			len(a.NoShows),
			len(a.Boarded),
			len(a.RACAllocated),
			len(a.Pending),
			approved,
			a.Stats.CurrentOnboard,
			a.Stats.RACPassengers,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, st := range report.Stations {
		for _, up := range st.Arrival.RACAllocated {
			fmt.Fprintf(out, "  %s: %s (%s) -> %s\n", st.Station.Code, up.PNR, up.RACStatus, up.ToBerth)
		}
	}

	f := report.Final
	fmt.Fprintf(out, "\nRAC upgraded: %d, no-shows: %d, deboarded: %d\n", f.TotalRACUpgraded, f.TotalNoShows, f.TotalDeboarded)
	return nil
}
