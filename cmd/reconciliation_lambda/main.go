package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/deals"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/models"
	"github.com/agrimandi/dealflow/pkg/storage"
	dydbstore "github.com/agrimandi/dealflow/pkg/storage/dynamodb"
	"github.com/agrimandi/dealflow/pkg/tracking"
)

var (
	store       storage.Storage
	dealService *deals.Service
)

// stuckPaidThreshold is how long a deal may sit in paid before the sweep
// re-checks its delivery with the tracker.
const stuckPaidThreshold = 48 * time.Hour

// stuckAgreedThreshold is how long an agreed deal may wait for payment
// before the sweep flags it.
const stuckAgreedThreshold = 72 * time.Hour

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	tables := dydbstore.Tables{
		Deals:        os.Getenv("DYNAMODB_DEALS_TABLE_NAME"),
		Disputes:     os.Getenv("DYNAMODB_DISPUTES_TABLE_NAME"),
		Feedback:     os.Getenv("DYNAMODB_FEEDBACK_TABLE_NAME"),
		Transactions: os.Getenv("DYNAMODB_TRANSACTIONS_TABLE_NAME"),
		Resolutions:  os.Getenv("DYNAMODB_RESOLUTIONS_TABLE_NAME"),
		Prompts:      os.Getenv("DYNAMODB_PROMPTS_TABLE_NAME"),
	}
	if tables.Deals == "" {
		log.Fatal("DYNAMODB_DEALS_TABLE_NAME environment variable not set")
	}
	store = dydbstore.New(dbClient, tables)

	trackerURL := os.Getenv("DELIVERY_TRACKER_URL")
	if trackerURL == "" {
		log.Fatal("DELIVERY_TRACKER_URL environment variable not set")
	}

	var appCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		appCache = cache.NewRedis(redis.NewClient(&redis.Options{Addr: redisAddr}))
	} else {
		appCache = cache.NewMemory()
	}

	// The sweep never initiates payments, so the gateway is left nil.
	dealService = deals.New(deals.Deps{
		Deals:    store,
		Disputes: store,
		Payments: store,
		Cache:    appCache,
		Tracker:  tracking.NewHTTPTracker(trackerURL, nil),
		Events:   events.NewLogEmitter(logger),
		Logger:   logger,
	})
}

// HandleRequest is triggered by an EventBridge Schedule. It sweeps deals
// stuck in paid, asks the tracker where their shipments stand and advances
// the ones that already arrived.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting reconciliation sweep for stuck deals...")

	awaitingPayment, err := store.GetStuckDeals(ctx, models.StatusAgreed, stuckAgreedThreshold)
	if err != nil {
		log.Printf("ERROR: failed to get stuck agreed deals: %v", err)
		return err
	}
	for _, deal := range awaitingPayment {
		log.Printf("Deal %s agreed since %s with no payment", deal.Id, deal.UpdatedAt.Format(time.RFC3339))
	}

	stuck, err := store.GetStuckDeals(ctx, models.StatusPaid, stuckPaidThreshold)
	if err != nil {
		log.Printf("ERROR: failed to get stuck deals: %v", err)
		return err
	}

	if len(stuck) == 0 {
		log.Println("No stuck deals found.")
		return nil
	}

	log.Printf("Found %d stuck deals. Checking delivery status...", len(stuck))

	for _, deal := range stuck {
		status, err := dealService.TrackDelivery(ctx, deal.Id)
		if err != nil {
			log.Printf("ERROR: failed to track delivery for deal %s: %v", deal.Id, err)
			// Continue to the next deal, don't let one failure stop the whole batch.
			continue
		}

		if status.Status != models.DeliveryDelivered {
			log.Printf("Deal %s still %s, leaving as is", deal.Id, status.Status)
			continue
		}

		if _, err := dealService.UpdateDealStatus(ctx, deal.Id, models.StatusDelivered); err != nil {
			log.Printf("ERROR: failed to advance deal %s to delivered: %v", deal.Id, err)
			continue
		}
		log.Printf("Advanced deal %s to delivered", deal.Id)
	}

	log.Println("Reconciliation sweep finished.")
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
