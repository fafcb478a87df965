package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"github.com/decker502/tiltduel/pkg/config"
	"github.com/decker502/tiltduel/pkg/game"
	"github.com/decker502/tiltduel/pkg/systems"
)

const tickDelta = 1.0 / 60.0

type runStats struct {
	runIndex int
	seed     int64

	ticks    int
	over     bool
	result   game.SessionResult
	player1  int
	player2  int
	rounds   int
	hits     int
	blasts   int
	firstHit int
	weapons  map[string]int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var configPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless duels")
	flag.IntVar(&ticks, "ticks", 60*600, "tick limit per duel")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&configPath, "config", "", "gameplay config file (.yaml/.toml), empty for built-in")
	flag.BoolVar(&verbose, "verbose", false, "print simulation logs")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if !verbose {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadGameplayConfig(configPath)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	fmt.Printf("=== Headless Duel Report ===\n")
	fmt.Printf("runs=%d ticks=%d seed_base=%d seed_step=%d win_score=%d\n\n", runs, ticks, seedBase, seedStep, cfg.Round.WinScore)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats, err := runDuel(i+1, seed, ticks, cfg)
		if err != nil {
			fmt.Printf("error: run %d: %v\n", i+1, err)
			return
		}
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runDuel 两个自主角色对战，直到整局结束或达到 tick 上限
func runDuel(runIndex int, seed int64, ticks int, cfg *config.GameplayConfig) (runStats, error) {
	ctx, err := game.NewContext(cfg, nil, seed)
	if err != nil {
		return runStats{}, err
	}
	rc, err := game.NewRoundController(ctx, game.RoundOptions{})
	if err != nil {
		return runStats{}, err
	}

	rs := runStats{runIndex: runIndex, seed: seed, weapons: map[string]int{}, firstHit: -1}
	tick := 0
	rc.OnHit(func(e systems.HitEvent) {
		rs.hits++
		if e.Explosive {
			rs.blasts++
		}
		if rs.firstHit < 0 {
			rs.firstHit = tick
		}
	})
	rc.OnRoundReset(func(int) { rs.weapons[rc.WeaponType()]++ })

	rc.Start()
	rs.weapons[rc.WeaponType()]++
	for tick = 0; tick < ticks && !rc.Over(); tick++ {
		rc.Update(tickDelta)
	}

	rs.ticks = tick
	rs.over = rc.Over()
	rs.result = rc.Result()
	rs.player1, rs.player2 = rc.Scores()
	rs.rounds = rc.Round()
	return rs, nil
}

func printRun(rs runStats) {
	fmt.Printf("--- Run %d (seed=%d) ---\n", rs.runIndex, rs.seed)
	status := "unfinished"
	if rs.over {
		status = "winner=" + rs.result.Winner.String()
	}
	fmt.Printf("outcome: %s score=%d-%d rounds=%d ticks=%d (%.1fs)\n",
		status, rs.player1, rs.player2, rs.rounds, rs.ticks, float64(rs.ticks)*tickDelta)
	fmt.Printf("combat: hits=%d explosive=%d first_hit_tick=%d\n", rs.hits, rs.blasts, rs.firstHit)
	fmt.Printf("weapons: %s\n\n", joinCounts(rs.weapons))
}

func printAggregate(all []runStats) {
	wins := map[game.Side]int{}
	finished := 0
	hits := 0
	rounds := 0
	weapons := map[string]int{}
	for _, rs := range all {
		if rs.over {
			finished++
			wins[rs.result.Winner]++
		}
		hits += rs.hits
		rounds += rs.rounds
		for w, n := range rs.weapons {
			weapons[w] += n
		}
	}

	fmt.Printf("=== Aggregate ===\n")
	fmt.Printf("runs=%d finished=%d\n", len(all), finished)
	fmt.Printf("wins: player1=%d player2=%d draw=%d\n", wins[game.SidePlayer1], wins[game.SidePlayer2], wins[game.SideNone])
	fmt.Printf("avg_per_run: hits=%.1f rounds=%.1f\n", avg(hits, len(all)), avg(rounds, len(all)))
	fmt.Printf("weapon_rounds: %s\n", joinCounts(weapons))
}

func avg(sum int, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// joinCounts 按名称排序输出 name=count
func joinCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
