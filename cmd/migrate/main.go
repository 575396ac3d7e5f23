// Command migrate imports the flat-file collections of the previous system
// (schedule CSV, messages CSV, admin log CSV, users JSON) into the SQLite
// store. Plain-text legacy secrets are hashed on the way in.
package main

import (
	"context"
	"errors"
	"io"
	"log"
	"os"

	"maale/internal/config"
	"maale/internal/database"
	"maale/internal/legacy"
	"maale/internal/logging"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "migrate").Logger()

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()

	if err := migrateBookings(ctx, db, cfg.Legacy.ScheduleCSV, logger); err != nil {
		return err
	}
	if err := migrateAnnouncements(ctx, db, cfg.Legacy.MessagesCSV, logger); err != nil {
		return err
	}
	if err := migrateAdminLog(ctx, db, cfg.Legacy.AdminLogCSV, logger); err != nil {
		return err
	}
	if err := migrateUsers(ctx, db, cfg.Legacy.UsersJSON, logger); err != nil {
		return err
	}

	if err := db.SeedDefaultAdmin(ctx); err != nil {
		return err
	}

	logger.Info().Msg("migration complete")
	return nil
}

func openLegacyFile(path string, logger zerolog.Logger) (*os.File, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		logger.Warn().Str("path", path).Msg("legacy file not found, skipping")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return f, true, nil
}

func migrateBookings(ctx context.Context, db *database.DB, path string, logger zerolog.Logger) error {
	f, ok, err := openLegacyFile(path, logger)
	if err != nil || !ok {
		return err
	}
	defer f.Close()

	bookings, err := legacy.ReadBookings(f)
	if err != nil {
		return err
	}

	imported := 0
	for i := range bookings {
		b := bookings[i]
		err := db.CreateBookingTx(ctx, &b)
		if errors.Is(err, database.ErrSlotTaken) {
			// Legacy rows that overlap an earlier row lose; the old
			// system never enforced the interval check on disk.
			logger.Warn().Str("date", b.DateKey()).Str("slots", b.StartSlot+"-"+b.EndSlot).Msg("skipping overlapping legacy booking")
			continue
		}
		if err != nil {
			return err
		}
		imported++
	}

	logger.Info().Int("imported", imported).Int("total", len(bookings)).Msg("bookings migrated")
	return nil
}

func migrateAnnouncements(ctx context.Context, db *database.DB, path string, logger zerolog.Logger) error {
	f, ok, err := openLegacyFile(path, logger)
	if err != nil || !ok {
		return err
	}
	defer f.Close()

	list, err := legacy.ReadAnnouncements(f)
	if err != nil {
		return err
	}

	for i := range list {
		if err := db.AddAnnouncement(ctx, &list[i]); err != nil {
			return err
		}
	}

	logger.Info().Int("imported", len(list)).Msg("announcements migrated")
	return nil
}

func migrateAdminLog(ctx context.Context, db *database.DB, path string, logger zerolog.Logger) error {
	f, ok, err := openLegacyFile(path, logger)
	if err != nil || !ok {
		return err
	}
	defer f.Close()

	entries, err := legacy.ReadAdminLog(f)
	if err != nil {
		return err
	}

	for i := range entries {
		if err := db.AppendAdminLog(ctx, &entries[i]); err != nil {
			return err
		}
	}

	logger.Info().Int("imported", len(entries)).Msg("admin log migrated")
	return nil
}

func migrateUsers(ctx context.Context, db *database.DB, path string, logger zerolog.Logger) error {
	f, ok, err := openLegacyFile(path, logger)
	if err != nil || !ok {
		return err
	}
	defer f.Close()

	users, err := legacy.ReadUsers(f)
	if err != nil {
		return err
	}

	for username, u := range users {
		role := legacy.RoleOf(u)
		if err := db.UpsertCredential(ctx, username, u.Password, role); err != nil {
			return err
		}
		logger.Info().Str("username", username).Str("role", string(role)).Msg("credential migrated")
	}
	return nil
}
