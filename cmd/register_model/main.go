package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"loanpredict/db"
	"loanpredict/ml"
)

func main() {
	artifactPath := flag.String("artifact", "./models/loan_approval.json", "model artifact to register")
	dbPath := flag.String("db", "./data/models.db", "model registry path")
	list := flag.Bool("list", false, "list registered artifacts and exit")
	flag.Parse()

	ctx := context.Background()

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("failed to create registry dir: %v", err)
	}
	registry, err := db.OpenRegistry(*dbPath)
	if err != nil {
		log.Fatalf("failed to open registry: %v", err)
	}
	defer registry.Close()

	if *list {
		records, err := registry.ListArtifacts(ctx)
		if err != nil {
			log.Fatalf("failed to list artifacts: %v", err)
		}
		for _, rec := range records {
			fmt.Printf("%s\t%s\t%d bytes\t%s\t%s\n", rec.Name, rec.Version, rec.Size, rec.Checksum[:12], rec.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return
	}

	// the artifact must load cleanly before it is stored
	model, err := ml.LoadModel(ctx, ml.FileSource{Path: *artifactPath})
	if err != nil {
		log.Fatalf("artifact rejected: %v", err)
	}
	if model.Name == "" || model.Version == "" {
		log.Fatal("artifact rejected: name and version are required")
	}

	payload, err := os.ReadFile(*artifactPath)
	if err != nil {
		log.Fatalf("failed to read artifact: %v", err)
	}
	record, err := registry.SaveArtifact(ctx, model.Name, model.Version, payload)
	if err != nil {
		log.Fatalf("failed to register artifact: %v", err)
	}

	fmt.Printf("registered %s %s (%s)\n", record.Name, record.Version, record.Checksum)
}
