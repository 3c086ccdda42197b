package main

import (
	"log"

	"github.com/Mohanapriya2828/schoolapp-ado/config"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/app"

	postgresDriver "github.com/Mohanapriya2828/schoolapp-ado/internal/infrastructure/database/postgres"
)

func main() {
	config := config.CreateNewConfig()
	if err := config.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := postgresDriver.NewDB(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	server := app.App{
		DB:     db,
		Config: config,
	}

	server.Start()
}
