// Command main runs the legacy author-link batch job: posts whose idAuthor
// still holds a username string get rewritten to the user's ObjectID.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"picstream/internal/config"
	"picstream/internal/database"
	"picstream/internal/migrate"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Report what would change without writing")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Disconnect(context.Background(), db); err != nil {
			log.Printf("Disconnect error: %v", err)
		}
	}()

	job := migrate.NewAuthorLink(db)
	job.DryRun = *dryRun

	report, err := job.Run(ctx)
	if err != nil {
		log.Fatalf("Author link failed: %v", err)
	}

	verb := "linked"
	if *dryRun {
		verb = "would link"
	}
	log.Printf("Scanned %d legacy posts, %s %d", report.Scanned, verb, report.Linked)
	for _, name := range report.Unresolved {
		log.Printf("Unresolved author %q left untouched", name)
	}
}
