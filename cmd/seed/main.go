package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/classroom-backend/internal/app"
	"github.com/yungbote/classroom-backend/internal/seed"
)

func main() {
	path := flag.String("file", "cmd/seed/demo.yaml", "YAML fixture to load")
	flag.Parse()

	a, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := run(a, *path); err != nil {
		a.Log.Error("Seed failed", "error", err, "file", *path)
		a.Close()
		os.Exit(1)
	}
}

func run(a *app.App, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	fixture, err := seed.Load(file)
	if err != nil {
		return err
	}
	sum, err := seed.Apply(context.Background(), a.Log, seed.Services{
		Auth:    a.Services.Auth,
		Class:   a.Services.Class,
		Catalog: a.Services.Catalog,
		Lesson:  a.Services.Lesson,
	}, fixture)
	if err != nil {
		return err
	}
	a.Log.Info("Seed complete",
		"accounts", sum.Accounts,
		"classes", sum.Classes,
		"topics", sum.Topics,
		"items", sum.Items,
		"lessons", sum.Lessons,
	)
	return nil
}
