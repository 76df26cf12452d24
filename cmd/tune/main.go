// Package main searches the rollermine steering gains with CMA-ES, scoring
// each candidate on headless one-on-one pursuit scenarios.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/rollermine/config"
)

// evalRecord is one row of tune_log.csv.
type evalRecord struct {
	Eval           int     `csv:"eval"`
	Fitness        float64 `csv:"fitness"`
	DriveScale     float64 `csv:"drive_scale"`
	CorrectionGain float64 `csv:"correction_gain"`
	ContactRate    float64 `csv:"contact_rate"`
	TimeToContact  float64 `csv:"time_to_contact"`
	OrbitRatio     float64 `csv:"orbit_ratio"`
	MeanDistance   float64 `csv:"mean_distance"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 0, "Ticks per scenario (0 = tune.max_ticks)")
	seeds := flag.Int("seeds", 0, "Scenarios per evaluation (0 = tune.seeds)")
	maxEvals := flag.Int("max-evals", 0, "Maximum number of evaluations (0 = tune.max_evals)")
	distance := flag.Float64("start-distance", 0, "Initial mine-to-player distance (0 = tune.start_distance)")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()
	tc := baseCfg.Tune
	if *maxTicks > 0 {
		tc.MaxTicks = *maxTicks
	}
	if *seeds > 0 {
		tc.Seeds = *seeds
	}
	if *maxEvals > 0 {
		tc.MaxEvals = *maxEvals
	}
	if *distance > 0 {
		tc.StartDistance = *distance
	}

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, tc.Seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, baseCfg, evalSeeds, tc.MaxTicks, tc.StartDistance)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: tc.MaxEvals,
		Concurrent:      0,
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e18
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			sum := evaluator.Last()
			evalCount++

			clamped := params.Clamp(raw)
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			rec := []evalRecord{{
				Eval:           evalCount,
				Fitness:        fitness,
				DriveScale:     clamped[0],
				CorrectionGain: clamped[1],
				ContactRate:    sum.ContactRate,
				TimeToContact:  sum.TimeToContact,
				OrbitRatio:     sum.OrbitRatio,
				MeanDistance:   sum.MeanDistance,
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(rec, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				log.Printf("failed to write eval %d: %v", evalCount, err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(tc.MaxEvals-evalCount) * avgPerEval
			fmt.Printf("Eval %d/%d: drive=%.3f corr=%.0f contact=%.0f%% ttc=%.2fs orbit=%.2f (best=%.2f) | elapsed: %s, ETA: %s\n",
				evalCount, tc.MaxEvals, clamped[0], clamped[1], sum.ContactRate*100, sum.TimeToContact, sum.OrbitRatio,
				bestFitness, formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES over %d gains, population=%d, max_evals=%d\n", dim, popSize, tc.MaxEvals)
	fmt.Printf("Scenarios per evaluation: %d, ticks per scenario: %d, start distance: %.0f\n",
		tc.Seeds, tc.MaxTicks, tc.StartDistance)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Best seen may come from any evaluation, not just the final mean
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best fitness: %.3f\n", bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
