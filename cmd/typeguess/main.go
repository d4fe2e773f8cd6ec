package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/panyam/typeguess/cmd/typeguess/commands"
)

func main() {
	envfile := ".env"
	if os.Getenv("TYPEGUESS_ENV") == "dev" {
		envfile = ".env.dev"
	}
	if err := godotenv.Load(envfile); err != nil && !os.IsNotExist(err) {
		log.Fatal("Error loading env file ", envfile, ": ", err)
	}
	commands.Execute()
}
