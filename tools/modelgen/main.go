package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	var dsn, out string
	flag.StringVar(&dsn, "dsn", os.Getenv("PETLENS_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/model", "output dir for generated models")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or PETLENS_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           out,
		ModelPkgPath:      "model",
		Mode:              gen.WithoutContext,
		FieldNullable:     true,
		FieldWithTypeTag:  false,
		FieldWithIndexTag: false,
	})
	g.UseDB(db)
	// jsonb columns stay raw bytes; the repos own their encoding.
	g.GenerateModel("pet_snapshots", gen.FieldType("abilities", "[]byte"))
	g.GenerateModel("garden_crops", gen.FieldType("mutations", "[]byte"))
	g.Execute()

	fmt.Printf("generated gorm models at %s\n", out)
}
