// Command seed loads a demo member and a handful of spaces, then prints a
// bearer token for the member.  Running it twice reuses the existing rows.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/workspace-booking/internal/config"
	"github.com/iliyamo/workspace-booking/internal/database"
	"github.com/iliyamo/workspace-booking/internal/model"
	"github.com/iliyamo/workspace-booking/internal/repository"
	"github.com/iliyamo/workspace-booking/internal/utils"
)

var demoSpaces = []model.Space{
	{Name: "Hot Desk 1", SpaceType: model.SpaceDesk, Location: "Downtown", Places: "Lisbon", Capacity: 1, Features: []string{"window"}, Equipment: []string{"monitor"}},
	{Name: "Hot Desk 2", SpaceType: model.SpaceDesk, Location: "Downtown", Places: "Lisbon", Capacity: 1, Features: []string{}, Equipment: []string{"monitor", "dock"}},
	{Name: "Focus Booth", SpaceType: model.SpaceRoom, Location: "Downtown", Places: "Lisbon", Capacity: 1, IsPrivate: true, Features: []string{"quiet"}, Equipment: []string{}},
	{Name: "Harbour Room", SpaceType: model.SpaceRoom, Location: "Harbour View", Places: "Porto", Capacity: 8, Features: []string{"whiteboard", "tv"}, Equipment: []string{"projector"}},
	{Name: "Garden Desk", SpaceType: model.SpaceDesk, Location: "Harbour View", Places: "Porto", Capacity: 1, Features: []string{"window", "plants"}, Equipment: []string{}},
}

func main() {
	_ = godotenv.Load()
	email := flag.String("email", "demo@example.com", "demo member email")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.RequireJWT(); err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	ctx := context.Background()
	if err := database.Migrate(db, cfg.DB, "up"); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	user, err := seed(ctx, db, *email, time.Now().UTC())
	if err != nil {
		log.Fatal().Err(err).Msg("seed")
	}
	at, err := utils.NewAccessToken(cfg.JWTSecret, user.ID, user.Role, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("mint token")
	}
	fmt.Printf("user_id: %s\ntoken:   %s\nexpires: %s\n", user.ID, at.Token, at.Exp.Format(time.RFC3339))
}

// seed inserts the demo member unless the email exists, and the demo spaces
// unless any bookable space exists.
func seed(ctx context.Context, db *sql.DB, email string, now time.Time) (model.UserProfile, error) {
	users := repository.NewUserRepo(db)
	u := model.UserProfile{
		ID:       uuid.NewString(),
		Email:    email,
		FullName: "Demo Member",
		Role:     "member",
		IsActive: true,
	}
	switch err := users.Create(ctx, u, now); {
	case errors.Is(err, repository.ErrEmailExists):
		if u, err = users.GetByEmail(ctx, email); err != nil {
			return model.UserProfile{}, err
		}
		log.Info().Str("user_id", u.ID).Msg("demo member exists")
	case err != nil:
		return model.UserProfile{}, err
	default:
		log.Info().Str("user_id", u.ID).Msg("demo member created")
	}

	spaces := repository.NewSpaceRepo(db)
	n, err := spaces.CountBookable(ctx)
	if err != nil {
		return model.UserProfile{}, err
	}
	if n > 0 {
		log.Info().Int("spaces", n).Msg("spaces already present")
		return u, nil
	}
	for _, sp := range demoSpaces {
		sp.ID = uuid.NewString()
		sp.IsBookable = true
		sp.Status = model.SpaceAvailable
		if err := spaces.Insert(ctx, sp); err != nil {
			return model.UserProfile{}, fmt.Errorf("insert %s: %w", sp.Name, err)
		}
	}
	log.Info().Int("spaces", len(demoSpaces)).Msg("demo spaces created")
	return u, nil
}
