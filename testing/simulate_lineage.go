package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/tatianab/matchmaker/internal/config"
	"github.com/tatianab/matchmaker/internal/engine"
	"github.com/tatianab/matchmaker/internal/genetics"
	"github.com/tatianab/matchmaker/internal/models"
	"github.com/tatianab/matchmaker/internal/pairing"
)

var maxGenerations = flag.Int("generations", 4, "number of marriages to chain")

func main() {
	flag.Parse()
	if err := config.LoadDotEnv(); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := models.CheckClassHierarchy(); err != nil {
		log.Fatalf("Bad class hierarchy: %v", err)
	}
	level, _ := cfg.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	seed := cfg.Seed
	if seed == 0 {
		if seed, err = genetics.NewSeed(); err != nil {
			log.Fatalf("Failed to pick a seed: %v", err)
		}
	}
	fmt.Printf("Seed: %d\n\n", seed)

	ctx := context.Background()
	eng, err := engine.NewEngine(ctx, cfg.GeminiAPIKey, cfg.Model, logger)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	session := pairing.NewSession(pairing.NewMatchmaker(genetics.NewSource(seed), eng, logger))

	// 1. Two strangers
	fmt.Println("--- Step 1: Summoning two strangers ---")
	if err := withTimeout(ctx, cfg, session.Reset); err != nil {
		log.Fatalf("Failed to reset session: %v", err)
	}

	// 2. Marry, keep the strongest child, find them a new partner, repeat
	for round := 1; round <= *maxGenerations; round++ {
		a, _ := session.Parent(pairing.SlotA)
		b, _ := session.Parent(pairing.SlotB)
		fmt.Printf("--- Marriage %d ---\n", round)
		fmt.Printf("A: %s\n", describe(a))
		fmt.Printf("B: %s\n", describe(b))

		var result models.PairingResult
		err := withTimeout(ctx, cfg, func(ctx context.Context) error {
			var err error
			result, err = session.Pair(ctx)
			return err
		})
		if err != nil {
			fmt.Printf("Error pairing: %v\n", err)
			break
		}

		fmt.Printf("Outcome: %s\n", result.Outcome)
		fmt.Printf("Story: %s\n", result.Story)
		for i, child := range result.Children {
			fmt.Printf("Child %d: %s\n", i+1, describe(child))
		}

		heir := strongest(result.Children)
		if err := session.ContinueLineage(heir, pairing.SlotA); err != nil {
			log.Fatalf("Failed to continue lineage: %v", err)
		}
		fmt.Printf("Heir: %s\n\n", heir.Identity)

		if round < *maxGenerations {
			if err := withTimeout(ctx, cfg, func(ctx context.Context) error {
				return session.Refresh(ctx, pairing.SlotB)
			}); err != nil {
				fmt.Printf("Error finding a new partner: %v\n", err)
				break
			}
		}
	}

	fmt.Println("--- Stories, newest first ---")
	for _, story := range session.History() {
		fmt.Println(strings.TrimSpace(story))
		fmt.Println()
	}
}

func withTimeout(ctx context.Context, cfg *config.Config, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	return op(ctx)
}

func describe(npc models.NPC) string {
	return fmt.Sprintf("%s (gen %d, %s %s) appearance=%d combat=%d constitution=%d intelligence=%d",
		npc.Identity, npc.Generation, npc.Race, npc.SocialClass,
		npc.Appearance.Score, npc.Combat.Value, npc.Constitution.Value, npc.Intelligence.Value)
}

// strongest returns the child with the highest score total, preferring
// higher social rank on ties.
func strongest(children []models.NPC) models.NPC {
	best := children[0]
	for _, c := range children[1:] {
		if total(c) > total(best) || total(c) == total(best) && c.SocialClass.Rank() > best.SocialClass.Rank() {
			best = c
		}
	}
	return best
}

func total(npc models.NPC) int {
	return npc.Appearance.Score + npc.Combat.Value + npc.Constitution.Value + npc.Intelligence.Value
}
