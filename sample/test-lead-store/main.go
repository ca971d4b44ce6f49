package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/xavierca1/lead-intake/internal/entity"
	"github.com/xavierca1/lead-intake/internal/infra/integration/leadstore"
	"github.com/xavierca1/lead-intake/internal/infra/logger"
)

// Posts one contact submission straight to LEAD_STORE_URL and prints what
// the store filed.
func main() {
	log := logger.Named("sample")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env not found, using process environment")
	}

	url := os.Getenv("LEAD_STORE_URL")
	if url == "" {
		log.Fatal().Msg("LEAD_STORE_URL must be set")
	}

	client := leadstore.NewClient(url, os.Getenv("LEAD_STORE_SECRET"))

	sub := entity.Submission{
		ID:        uuid.New().String(),
		FormType:  entity.FormContact,
		Email:     "ada.test@example.com",
		FirstName: "Ada",
		LastName:  "Test",
		Message:   "Lead store smoke test",
		Timestamp: time.Now().UTC(),
	}

	fmt.Printf("Sending %s submission for %s\n", sub.FormType, sub.Email)

	out, err := client.Record(context.Background(), sub)
	if err != nil {
		log.Fatal().Err(err).Msg("lead store write failed")
	}

	fmt.Printf("Filed in %q as %s (submission #%d)\n", out.Sheet, out.Urgency, out.SubmissionCount)
}
