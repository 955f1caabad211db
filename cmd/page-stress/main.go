package main

//go:generate go run ./gen -components 24 -out components_gen.go

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/archstore/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	pageSize := flag.Int("page-size", ecs.DefaultPageSize, "The buffer size of every page in bytes.")
	churn := flag.Int("churn", 200, "Structural changes (spawn, delete, add, remove) per frame.")
	compactEvery := flag.Int("compact-every", 60, "Compact the storage every N frames; 0 disables compaction.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	seed := flag.Int64("seed", 1, "Seed for the random workload.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q", *profileMode)
	}

	log.Println("Starting page storage stress test...")

	// 1. Setup Registry and Storage
	registry := ecs.NewComponentRegistry()
	w := &workload{
		rng:   rand.New(rand.NewSource(*seed)),
		ids:   RegisterAllGeneratedComponents(registry),
		store: ecs.NewStorage(registry, ecs.WithPageSize(*pageSize)),
	}

	// 2. Populate Storage with initial entities
	log.Printf("Populating storage with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		w.spawn()
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Components:     componentCount,
		PageSize:       *pageSize,
		Churn:          *churn,
		GCPauseMetrics: *gcPauseMetrics,
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			w.iterate()
			for i := 0; i < *churn; i++ {
				w.mutate()
			}
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			totalUpdates++

			if *compactEvery > 0 && totalUpdates%int64(*compactEvery) == 0 {
				compactStart := time.Now()
				w.store.Compact()
				report.CompactTime.Samples = append(report.CompactTime.Samples, time.Since(compactStart))
			}
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.Operations = w.ops
	report.UpdateTime.Finalize()
	report.CompactTime.Finalize()
	report.Storage = w.store.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
