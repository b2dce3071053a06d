package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jengzang/fleet-tracker-go/internal/auth"
	"github.com/jengzang/fleet-tracker-go/internal/logger"
	"github.com/jengzang/fleet-tracker-go/internal/repository"
	"github.com/jengzang/fleet-tracker-go/internal/seed"
	"github.com/jengzang/fleet-tracker-go/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo users, vehicles and trips",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	clock := service.SystemClock{}
	vehicleRepo := repository.NewVehicleRepository(db)
	tripRepo := repository.NewTripRepository(db)
	tokens := auth.NewTokenIssuer(cfg.Auth)
	authSvc := service.NewAuthService(repository.NewUserRepository(db), tokens, cfg.Auth.BcryptCost, clock, logger.Component(log, "auth"))
	vehicleSvc := service.NewVehicleService(vehicleRepo, tripRepo, clock, logger.Component(log, "vehicles"))

	res, err := seed.New(authSvc, vehicleSvc, logger.Component(log, "seed")).Run(cmd.Context(), time.Now())
	if err != nil {
		return err
	}

	log.Info().Int("users", res.Users).Int("vehicles", res.Vehicles).Int("trips", res.Trips).Msg("database seeded")
	fmt.Fprintf(cmd.OutOrStdout(), "admin@example.com / user@example.com, password %q\n", seed.DemoPassword)
	return nil
}
