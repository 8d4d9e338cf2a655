// Command users imports the login directory from a YAML file into the
// users table. Existing usernames are updated in place.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"cartbook/internal/config"
	"cartbook/internal/database"
	"cartbook/internal/models"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type userFile struct {
	Users []struct {
		Username    string `yaml:"username"`
		PinCode     string `yaml:"pin_code"`
		FullName    string `yaml:"full_name"`
		FirstName   string `yaml:"first_name"`
		LastName    string `yaml:"last_name"`
		DisplayName string `yaml:"display_name"`
	} `yaml:"users"`
}

func main() {
	_ = godotenv.Load()

	var file string
	flag.StringVar(&file, "file", "configs/users.yaml", "user directory file")
	flag.Parse()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("CARTBOOK_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	data, err := os.ReadFile(file)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to read user file")
	}

	var uf userFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		logger.Fatal().Err(err).Msg("failed to parse user file")
	}

	db, err := database.NewDB(cfg.Database.Path, cfg.Env, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	ctx := context.Background()
	imported := 0
	for _, u := range uf.Users {
		if u.Username == "" || u.PinCode == "" {
			logger.Warn().Str("username", u.Username).Msg("skipping entry without username or pin")
			continue
		}
		user := models.User{
			Username:    u.Username,
			PinCode:     u.PinCode,
			FullName:    u.FullName,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			DisplayName: u.DisplayName,
		}
		if err := db.UpsertUser(ctx, user); err != nil {
			logger.Fatal().Err(err).Str("username", u.Username).Msg("import failed")
		}
		imported++
	}

	logger.Info().Int("imported", imported).Msg("user directory imported")
}
