package main

import (
	"flag"
	"log"

	"feedesk_backend/internals/configs"
	database "feedesk_backend/internals/databases"
	"feedesk_backend/internals/seeds"
)

func main() {
	dir := flag.String("dir", "internals/seeds/legacy/data", "folder berisi students.json dan payments.json")
	flag.Parse()

	configs.LoadEnv()
	db := configs.InitSeederDB()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("[ERROR] migrate failed: %v", err)
	}
	if err := seeds.RunAllSeeds(db, *dir); err != nil {
		log.Fatalf("[ERROR] seed failed: %v", err)
	}
	log.Println("[SEED] selesai")
}
