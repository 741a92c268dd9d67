package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/kiwari-pos/pricebook/internal/config"
	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/store"
)

// seed loads a configuration document into the server's settings store, so a
// fresh deployment starts from a known configuration instead of the defaults.
func main() {
	// CLI flags
	file := flag.String("file", "", "Configuration document to load (JSON)")
	force := flag.Bool("force", false, "Overwrite an existing stored configuration")
	flag.Parse()

	// Fall back to environment variables
	if *file == "" {
		*file = os.Getenv("SEED_FILE")
	}

	cfg := config.Load()
	ctx := context.Background()

	kv, err := store.Open(ctx, cfg.DatabaseURL, cfg.StateDir)
	if err != nil {
		log.Fatalf("Unable to open settings store: %v", err)
	}
	defer kv.Close()
	configs := store.NewConfigStore(kv)

	if _, err := kv.Get(ctx, store.ConfigKey); err == nil && !*force {
		log.Println("Configuration already stored, skipping (use -force to overwrite)")
		return
	}

	seeded := pricing.DefaultConfig()
	var themeName string
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", *file, err)
		}
		patch, err := pricing.DecodePatch(data)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", *file, err)
		}
		seeded = patch.Apply(seeded)
		themeName = patch.Theme
	} else {
		log.Println("WARNING: No -file given; storing compiled-in defaults")
	}

	if err := configs.Save(ctx, seeded); err != nil {
		log.Fatalf("Failed to save configuration: %v", err)
	}
	if themeName != "" {
		stored, err := configs.SaveTheme(ctx, themeName)
		if err != nil {
			log.Fatalf("Failed to save theme: %v", err)
		}
		log.Printf("Theme: %s", stored)
	}

	log.Println("Seed completed successfully")
	log.Printf("Buckets: %v", seeded.Labels())
}
