package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/natevvv/tile-pathfinding/pkg/grid"
	p "github.com/natevvv/tile-pathfinding/pkg/grid/path"
	"github.com/natevvv/tile-pathfinding/pkg/slice"
)

// a target is a query and its reference result:
// origin x, origin y, destination x, destination y, cost (-1 if unreachable), #hops
type target [6]int

func main() {
	gridFile := flag.String("grid", "map.grid", "Grid file to run the queries on")
	targetFile := flag.String("targets", "", "Target file (default: <grid>.targets)")
	useRandomTargets := flag.Bool("random", false, "Create (new) random targets")
	amountTargets := flag.Int("n", 100, "How many new targets should get created")
	storeTargets := flag.Bool("store", false, "Store targets (when newly generated)")
	algorithm := flag.String("search", "astar", "Select the search algorithm (astar, astar-manhattan, dijkstra)")
	maxDrop := flag.Float64("max-drop", 1, "Maximum descent per step")
	maxJump := flag.Float64("max-jump", 1, "Maximum ascent per step")
	cpuProfile := flag.String("cpu", "", "write cpu profile to file")
	debugLevel := flag.Int("debug", 0, "Set the debug level of the navigator")
	flag.Parse()

	if *targetFile == "" {
		*targetFile = *gridFile + ".targets"
	}

	start := time.Now()

	g, err := grid.ReadGridFile(*gridFile)
	if err != nil {
		log.Fatal(err)
	}

	elapsed := time.Since(start)
	fmt.Printf("[TIME-Import] = %s\n", elapsed)
	fmt.Printf("Grid: %dx%d\n", g.Width(), g.Height())

	navigator := getNavigator(*algorithm, g, *debugLevel)
	if navigator == nil {
		log.Fatal("Navigator not supported")
	}
	referenceDijkstra := p.NewTileDijkstra(g)
	limits := p.StepLimits{MaxDrop: *maxDrop, MaxJump: *maxJump}
	if err := limits.Validate(); err != nil {
		log.Fatal(err)
	}

	var targets []target
	if *useRandomTargets {
		targets = createTargets(*amountTargets, referenceDijkstra, limits)
		if *storeTargets {
			if err := writeTargets(targets, *targetFile); err != nil {
				log.Fatal(err)
			}
		}
	} else {
		targets, err = readTargets(*targetFile)
		if err != nil {
			log.Fatal(err)
		}
		if *amountTargets < len(targets) {
			targets = targets[0:*amountTargets]
		}
	}
	if len(targets) == 0 {
		log.Fatal("No targets")
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}
	benchmark(navigator, targets, limits)
}

func getNavigator(algorithm string, g *grid.Grid, debugLevel int) p.Navigator {
	var navigator *p.TileDijkstra
	if slice.Contains([]string{"default", "astar"}, algorithm) {
		navigator = p.NewTileAStar(g)
	} else if algorithm == "astar-manhattan" {
		navigator = p.NewTileAStar(g)
		navigator.SetHeuristic(p.ManhattanHeuristic)
	} else if algorithm == "dijkstra" {
		navigator = p.NewTileDijkstra(g)
	} else {
		return nil
	}
	navigator.SetDebugLevel(debugLevel)
	return navigator
}

func readTargets(filename string) ([]target, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Split(bufio.ScanLines)

	targets := make([]target, 0)

	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 1 {
			// skip empty lines
			continue
		} else if line[0] == '#' {
			// skip comments
			continue
		}
		var t target
		if _, err := fmt.Sscanf(line, "%d %d %d %d %d %d", &t[0], &t[1], &t[2], &t[3], &t[4], &t[5]); err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", line, err)
		}
		targets = append(targets, t)
	}
	return targets, scanner.Err()
}

func createTargets(n int, referenceNavigator *p.TileDijkstra, limits p.StepLimits) []target {
	targets := make([]target, n)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := referenceNavigator.GetGrid()
	// reference algorithm to compute the path
	for i := 0; i < n; i++ {
		origin := grid.MakePoint(uint16(rng.Intn(g.Width())), uint16(rng.Intn(g.Height())))
		destination := grid.MakePoint(uint16(rng.Intn(g.Width())), uint16(rng.Intn(g.Height())))
		result, _ := referenceNavigator.ComputePath(origin, destination, limits)
		cost := -1
		if result.Reachable() {
			cost = result.Cost
		}
		targets[i] = target{int(origin.X), int(origin.Y), int(destination.X), int(destination.Y), cost, len(result.Path)}
	}
	return targets
}

func writeTargets(targets []target, targetFile string) error {
	var sb strings.Builder
	sb.WriteString("# origin x, origin y, destination x, destination y, cost, hops\n")
	for _, t := range targets {
		sb.WriteString(fmt.Sprintf("%v %v %v %v %v %v\n", t[0], t[1], t[2], t[3], t[4], t[5]))
	}

	file, err := os.Create(targetFile)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	writer.WriteString(sb.String())
	return writer.Flush()
}

// Run benchmarks on the provided grid and targets
func benchmark(navigator p.Navigator, targets []target, limits p.StepLimits) {
	var runtime time.Duration = 0
	completed := 0

	pqPops := 0
	pqUpdates := 0
	edgeRelaxations := 0
	relaxationAttempts := 0

	invalidLengths := make([][3]int, 0)
	invalidResults := make([]int, 0)
	invalidHops := make([][3]int, 0)

	showResults := func() {
		if completed == 0 {
			return
		}
		fmt.Printf("Average runtime: %.3fms\n", float64(int(runtime.Nanoseconds())/completed)/1000000)
		fmt.Printf("Average pq pops: %d\n", pqPops/completed)
		fmt.Printf("Average pq updates: %d\n", pqUpdates/completed)
		fmt.Printf("Average relaxations attempts: %d\n", relaxationAttempts/completed)
		fmt.Printf("Average edge relaxations: %d\n", edgeRelaxations/completed)

		fmt.Printf("%v/%v invalid Result (source/target).\n", len(invalidResults), completed)
		for i, result := range invalidResults {
			fmt.Printf("%v: Case %v (%v) has invalid result\n", i, result, targets[result])
		}

		fmt.Printf("%v/%v invalid path lengths.\n", len(invalidLengths), completed)
		for i, lengths := range invalidLengths {
			testcase := lengths[0]
			actualLength := lengths[1]
			referenceLength := lengths[2]
			fmt.Printf("%v: Case %v (%v) has invalid length. Has: %v, Reference: %v, Difference: %v\n", i, testcase, targets[testcase], actualLength, referenceLength, actualLength-referenceLength)
		}

		// equal costs may still differ in hops, only informational
		fmt.Printf("%v/%v different hops number.\n", len(invalidHops), completed)
		for i, hops := range invalidHops {
			testcase := hops[0]
			actualHops := hops[1]
			referenceHops := hops[2]
			fmt.Printf("%v: Case %v (%v) has different #hops. Has: %v, reference: %v, difference: %v\n", i, testcase, targets[testcase], actualHops, referenceHops, actualHops-referenceHops)
		}
	}

	// catch interrupt to still show already calculated results
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		showResults()
		os.Exit(0)
	}()

	for i, t := range targets {
		origin := grid.MakePoint(uint16(t[0]), uint16(t[1]))
		destination := grid.MakePoint(uint16(t[2]), uint16(t[3]))
		referenceLength := t[4]
		referenceHops := t[5]

		start := time.Now()
		result, err := navigator.ComputePath(origin, destination, limits)
		elapsed := time.Since(start)
		if err != nil {
			log.Fatal(err)
		}

		kpis := result.KPIs
		pqPops += kpis.PqPops
		pqUpdates += kpis.PqUpdates
		edgeRelaxations += kpis.RelaxedEdges
		relaxationAttempts += kpis.RelaxationAttempts

		fmt.Printf("[%3v TIME-Navigate, PQ Pops, PQ Updates, relaxed Edges, relax attempts] = %12s, %7d, %7d, %7d, %7d\n", i, elapsed, kpis.PqPops, kpis.PqUpdates, kpis.RelaxedEdges, kpis.RelaxationAttempts)

		length := -1
		if result.Reachable() {
			length = result.Cost
		}
		if length != referenceLength {
			invalidLengths = append(invalidLengths, [3]int{i, length, referenceLength})
		}
		if result.Reachable() && (len(result.Path) == 0 || result.Path[len(result.Path)-1] != destination) {
			invalidResults = append(invalidResults, i)
		}
		if referenceHops != len(result.Path) {
			invalidHops = append(invalidHops, [3]int{i, len(result.Path), referenceHops})
		}

		runtime += elapsed
		completed++
	}
	// normal termination, show results
	showResults()
}
