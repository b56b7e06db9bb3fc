package main

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/akeren/resfi-api/config"
	"github.com/akeren/resfi-api/domain/waitlist"
	"github.com/akeren/resfi-api/internal/log"
	"gorm.io/gorm"
)

func exportWaitlist(logger *log.Logger, out io.Writer) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := config.NewDatabase(ctx, logger, config.DefaultDBConfig())
	if err != nil {
		return err
	}
	defer config.CloseDatabase(db, logger)

	return writeWaitlist(ctx, db, out)
}

func writeWaitlist(ctx context.Context, db *gorm.DB, out io.Writer) error {
	entries, err := waitlist.NewWaitlistRepository(db).GetAllEntries(ctx)
	if err != nil {
		return err
	}

	resp := make([]waitlist.WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, waitlist.ToWaitlistEntryResponse(entry))
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
