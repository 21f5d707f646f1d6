package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/agrimandi/dealflow/pkg/analytics"
	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/completion"
	"github.com/agrimandi/dealflow/pkg/deals"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/gateway"
	"github.com/agrimandi/dealflow/pkg/handlers"
	"github.com/agrimandi/dealflow/pkg/payments"
	"github.com/agrimandi/dealflow/pkg/queue"
	dydbstore "github.com/agrimandi/dealflow/pkg/storage/dynamodb"
	"github.com/agrimandi/dealflow/pkg/tracking"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// AWS Session
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
	if tables.Deals == "" || tables.Disputes == "" || tables.Feedback == "" ||
		tables.Transactions == "" || tables.Resolutions == "" || tables.Prompts == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}
	store := dydbstore.New(dbClient, tables)

	// SQS-backed action queue for deferred writes; fall back to an in-process
	// queue when no queue URL is configured.
	var actionQueue queue.ActionQueue
	if sqsQueueURL := os.Getenv("SQS_QUEUE_URL"); sqsQueueURL != "" {
		actionQueue = queue.NewSQSQueue(sqs.NewFromConfig(cfg), sqsQueueURL)
	} else {
		log.Println("SQS_QUEUE_URL not set, using in-process action queue")
		actionQueue = queue.NewMemoryQueue()
	}

	// Redis cache when configured, in-process cache otherwise.
	var appCache cache.Cache
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		appCache = cache.NewRedis(redis.NewClient(&redis.Options{Addr: redisAddr}))
	} else {
		log.Println("REDIS_ADDR not set, using in-process cache")
		appCache = cache.NewMemory()
	}

	gatewayURL := os.Getenv("PAYMENT_GATEWAY_URL")
	if gatewayURL == "" {
		log.Fatal("PAYMENT_GATEWAY_URL environment variable not set")
	}
	trackerURL := os.Getenv("DELIVERY_TRACKER_URL")
	if trackerURL == "" {
		log.Fatal("DELIVERY_TRACKER_URL environment variable not set")
	}

	emitter := events.NewLogEmitter(logger)

	dealService := deals.New(deals.Deps{
		Deals:    store,
		Disputes: store,
		Payments: store,
		Cache:    appCache,
		Queue:    actionQueue,
		Gateway:  gateway.NewHTTPGateway(gatewayURL, nil),
		Tracker:  tracking.NewHTTPTracker(trackerURL, nil),
		Events:   emitter,
		Logger:   logger,
	})

	manager := completion.NewManager(completion.Deps{
		Lifecycle:   dealService,
		Deals:       store,
		Feedback:    store,
		Prompts:     store,
		Resolutions: store,
		Cache:       appCache,
		Queue:       actionQueue,
		Events:      emitter,
		Logger:      logger,
	})

	router := handlers.NewRouter(handlers.Deps{
		Deals:      dealService,
		Payments:   payments.NewProcessor(dealService, logger),
		Completion: manager,
		Analytics:  analytics.NewReporter(store, logger),
		Logger:     logger,
	})

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
