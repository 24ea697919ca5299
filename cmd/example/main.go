// Package main demonstrates basic lazykanren usage patterns.
//
// It shows how the core primitives solve simple relational problems, and
// how a Runner adds configuration, logging and limits on top of them.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gitrdm/lazykanren/pkg/minikanren"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML runner configuration")
	verbose := flag.Bool("v", false, "log query details")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := minikanren.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = minikanren.LoadConfigFile(*configPath); err != nil {
			logger.Error("loading config", slog.Any("error", err))
			os.Exit(1)
		}
	}
	runner, err := minikanren.NewRunner(cfg, logger)
	if err != nil {
		logger.Error("creating runner", slog.Any("error", err))
		os.Exit(1)
	}

	fmt.Printf("=== lazykanren %s ===\n\n", minikanren.GetVersion())
	basicUnification()
	multipleChoices()
	listOperations()
	arithmetic()
	if err := runnerExample(runner); err != nil {
		logger.Error("runner example", slog.Any("error", err))
		os.Exit(1)
	}
}

// basicUnification demonstrates simple unification.
func basicUnification() {
	fmt.Println("1. Basic Unification:")

	results, _ := minikanren.Run(1, func(q minikanren.Value[string]) minikanren.Goal {
		return minikanren.Eq(q, minikanren.Bound("hello"))
	})
	fmt.Printf("   q = \"hello\" => %v\n", results)

	pairs, _ := minikanren.Run2(1, func(a minikanren.Value[int], b minikanren.Value[int]) minikanren.Goal {
		return minikanren.All(
			minikanren.Eq(a, b),
			minikanren.Eq(b, minikanren.Bound(42)),
		)
	})
	fmt.Printf("   a = b, b = 42 => %+v\n", pairs)
	fmt.Println()
}

// multipleChoices demonstrates disjunction and negation.
func multipleChoices() {
	fmt.Println("2. Multiple Choices (Disjunction):")

	results, _ := minikanren.Run(5, func(q minikanren.Value[int]) minikanren.Goal {
		return minikanren.Conde(
			minikanren.Eq(q, minikanren.Bound(1)),
			minikanren.Eq(q, minikanren.Bound(2)),
			minikanren.Eq(q, minikanren.Bound(3)),
		)
	})
	fmt.Printf("   q in {1, 2, 3} => %v\n", results)

	results, _ = minikanren.Run(5, func(q minikanren.Value[int]) minikanren.Goal {
		return minikanren.All(
			minikanren.Not(minikanren.Eq(q, minikanren.Bound(2))),
			minikanren.Conde(
				minikanren.Eq(q, minikanren.Bound(1)),
				minikanren.Eq(q, minikanren.Bound(2)),
				minikanren.Eq(q, minikanren.Bound(3)),
			),
		)
	})
	fmt.Printf("   q in {1, 2, 3}, q != 2 => %v\n", results)
	fmt.Println()
}

// listOperations demonstrates relations over lists.
func listOperations() {
	fmt.Println("3. List Operations:")

	splits, _ := minikanren.Run2(0, func(front, back minikanren.Value[minikanren.LList[int]]) minikanren.Goal {
		return minikanren.Appendo(front, back, minikanren.ListOf(1, 2, 3))
	})
	for _, s := range splits {
		fmt.Printf("   appendo(%v, %v, (1 2 3))\n", s.First, s.Second)
	}

	reversed, _ := minikanren.Run(1, func(q minikanren.Value[minikanren.LList[int]]) minikanren.Goal {
		return minikanren.Reverso(minikanren.ListOf(1, 2, 3), q)
	})
	fmt.Printf("   reverso((1 2 3), q) => %v\n", reversed)
	fmt.Println()
}

// arithmetic demonstrates constraints that derive values in any direction.
func arithmetic() {
	fmt.Println("4. Arithmetic Constraints:")

	plus := func(x, y, z minikanren.Value[int]) minikanren.Goal {
		return minikanren.Map2(x, y, z,
			func(x, y int) int { return x + y },
			func(x, z int) int { return z - x },
			func(y, z int) int { return z - y },
		)
	}
	results, _ := minikanren.Run(1, func(q minikanren.Value[int]) minikanren.Goal {
		return plus(q, minikanren.Bound(3), minikanren.Bound(10))
	})
	fmt.Printf("   q + 3 = 10 => %v\n", results)
	fmt.Println()
}

// runnerExample runs an unbounded relation through a Runner with a deadline.
func runnerExample(r *minikanren.Runner) error {
	fmt.Println("5. Runner:")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	prefixes, err := minikanren.Collect(ctx, r, 4, func(q minikanren.Value[minikanren.LList[string]]) minikanren.Goal {
		return minikanren.With1(func(rest minikanren.Value[minikanren.LList[string]]) minikanren.Goal {
			return minikanren.Appendo(q, rest, minikanren.ListOf("a", "b", "c", "d", "e"))
		})
	})
	if err != nil {
		return err
	}
	fmt.Printf("   first prefixes of (a b c d e) => %v (%v)\n", prefixes, time.Since(start))
	return nil
}
