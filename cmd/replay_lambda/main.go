package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"os"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/agrimandi/dealflow/pkg/cache"
	"github.com/agrimandi/dealflow/pkg/completion"
	"github.com/agrimandi/dealflow/pkg/deals"
	"github.com/agrimandi/dealflow/pkg/events"
	"github.com/agrimandi/dealflow/pkg/gateway"
	"github.com/agrimandi/dealflow/pkg/queue"
	dydbstore "github.com/agrimandi/dealflow/pkg/storage/dynamodb"
)

var (
	dealService *deals.Service
	manager     *completion.Manager
)

func init() {
	// Load environment variables from .env file (useful for local testing).
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

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
	if tables.Deals == "" || tables.Disputes == "" || tables.Feedback == "" ||
		tables.Transactions == "" || tables.Resolutions == "" || tables.Prompts == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}
	store := dydbstore.New(dbClient, tables)

	// A shared Redis cache keeps idempotency markers across invocations.
	// Without one, conditional store writes alone guard re-delivery.
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

	emitter := events.NewLogEmitter(logger)

	// The replay path never tracks deliveries, so the tracker is left nil.
	dealService = deals.New(deals.Deps{
		Deals:    store,
		Disputes: store,
		Payments: store,
		Cache:    appCache,
		Gateway:  gateway.NewHTTPGateway(gatewayURL, nil),
		Events:   emitter,
		Logger:   logger,
	})

	manager = completion.NewManager(completion.Deps{
		Lifecycle: dealService,
		Deals:     store,
		Feedback:  store,
		Prompts:   store,
		Cache:     appCache,
		Events:    emitter,
		Logger:    logger,
	})
}

// HandleRequest replays queued offline actions delivered through SQS.
func HandleRequest(ctx context.Context, sqsEvent awsevents.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var action queue.Action
		if err := json.Unmarshal([]byte(message.Body), &action); err != nil {
			log.Printf("ERROR: failed to unmarshal action from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Replaying %s action for deal %s", action.Type, action.DealID)

		var err error
		switch action.Type {
		case queue.ActionSubmitRating, queue.ActionCreatePrompt:
			err = manager.ApplyAction(ctx, action)
		default:
			err = dealService.ApplyAction(ctx, action)
		}
		if err != nil {
			log.Printf("ERROR: failed to replay action %s for deal %s: %v", action.ID, action.DealID, err)
			return err
		}

		log.Printf("Successfully replayed action for deal %s", action.DealID)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
