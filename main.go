package main

import (
	"fmt"
	"log"

	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/config"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/database"
	"github.com/Mansurrv/BackEndWebTechnologyFinal/internal/router"
)

func main() {
	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// bootstrap admin account and baseline data
	if err := database.EnsureAdminUser(db, cfg.Admin); err != nil {
		log.Fatalf("ensure admin user: %v", err)
	}
	if err := database.Seed(db); err != nil {
		log.Fatalf("seed data: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}
