// Command seed-tour populates a store with a demo tour: roster, tee-time
// slot grid, and optionally a first-fit auto assignment.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/whalechillz/go-singsing-sub000/internal/adapters/repository"
	"github.com/whalechillz/go-singsing-sub000/internal/app"
	"github.com/whalechillz/go-singsing-sub000/internal/seed"
	"github.com/whalechillz/go-singsing-sub000/pkg/logger"
)

func main() {
	var (
		driver       = flag.String("driver", "sqlite", "store driver: sqlite or postgres")
		sqlitePath   = flag.String("sqlite", "singsing.db", "sqlite database path")
		postgresDSN  = flag.String("postgres", "", "postgres DSN")
		tourID       = flag.String("tour", "demo-tour", "tour id to seed")
		participants = flag.Int("participants", 28, "roster size")
		dates        = flag.String("dates", "2025-06-11,2025-06-12,2025-06-13", "comma-separated dates")
		capacity     = flag.Int("capacity", 4, "per-slot capacity")
		rngSeed      = flag.Int64("seed", 42, "random seed")
		assign       = flag.Bool("assign", false, "run auto-assign after seeding")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	ctx := context.Background()

	store, err := openStore(ctx, *driver, *sqlitePath, *postgresDSN)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open store:", err)
		os.Exit(1)
	}

	gen := seed.NewGenerator(
		seed.WithTourID(*tourID),
		seed.WithParticipants(*participants),
		seed.WithDates(strings.Split(*dates, ",")),
		seed.WithCapacity(*capacity),
		seed.WithSeed(*rngSeed),
	)
	nRoster, nSlots, err := gen.Populate(ctx, store)
	if err != nil {
		fmt.Fprintln(os.Stderr, "seed:", err)
		os.Exit(1)
	}
	fmt.Printf("seeded tour %s: %d participants, %d slots\n", *tourID, nRoster, nSlots)

	if *assign {
		svc := app.New(app.WithTourID(*tourID), app.WithStore(store))
		if err := svc.Start(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "start service:", err)
			os.Exit(1)
		}
		res, err := svc.AutoAssign(ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, "auto-assign:", err)
			os.Exit(1)
		}
		fmt.Printf("auto-assigned %d edges (%d combinations skipped)\n", res.Applied, len(res.Skipped))
		svc.Stop()
	} else if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func openStore(ctx context.Context, driver, sqlitePath, postgresDSN string) (repository.Store, error) {
	switch driver {
	case "sqlite":
		return repository.OpenSQLite(sqlitePath)
	case "postgres":
		if postgresDSN == "" {
			return nil, fmt.Errorf("postgres DSN required")
		}
		return repository.OpenPostgres(ctx, postgresDSN)
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}
