package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"

	"github.com/accountech/financeos/backend/internal/api"
	"github.com/accountech/financeos/backend/internal/api/handlers"
	envconfig "github.com/accountech/financeos/backend/internal/common/config"
	"github.com/accountech/financeos/backend/internal/domain/account"
	"github.com/accountech/financeos/backend/internal/domain/business"
	"github.com/accountech/financeos/backend/internal/domain/category"
	"github.com/accountech/financeos/backend/internal/domain/ledger"
	"github.com/accountech/financeos/backend/internal/domain/report"
	"github.com/accountech/financeos/backend/internal/domain/simulation"
	platformdynamodb "github.com/accountech/financeos/backend/internal/platform/dynamodb"
	dynamoClient "github.com/accountech/financeos/backend/internal/platform/dynamodb/client"
	dynamodbRepository "github.com/accountech/financeos/backend/internal/platform/dynamodb/repository"
	"github.com/accountech/financeos/backend/internal/platform/genai"
)

func main() {
	// Local development only; in Lambda the variables come from the function
	// configuration
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	config, err := envconfig.LoadFromEnv()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize DynamoDB client
	dbClient, err := dynamoClient.NewDynamoDBClient(ctx, config.AWSRegion)
	if err != nil {
		logger.Error("Failed to initialize DynamoDB client", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	factory := dynamodbRepository.NewFactory(dbClient, config.DynamoDBTableName)
	businessRepo := factory.BusinessRepository()
	accountRepo := factory.AccountRepository()
	categoryRepo := factory.CategoryRepository()
	ledgerRepo := factory.LedgerRepository()

	// Initialize services
	businessService := business.NewService(businessRepo)
	accountService := account.NewService(accountRepo)
	categoryService := category.NewService(categoryRepo)
	ledgerService := ledger.NewService(ledgerRepo, accountRepo, categoryRepo, businessRepo)
	reportService := report.NewService(ledgerRepo, accountRepo)

	// Simulation pipeline: cached reality timelines, the scenario interpreter
	// and the adjustment engine share the same table-backed cache
	cache := platformdynamodb.NewCache(dbClient, config.DynamoDBTableName)
	interpreter, err := genai.NewInterpreter(ctx, config.GeminiModel)
	if err != nil {
		logger.Error("Failed to initialize scenario interpreter", "error", err)
		os.Exit(1)
	}
	builder := simulation.NewTimelineBuilder(ledgerRepo, cache, config.RealityCacheTTL)
	adjuster := simulation.NewAdjuster(simulation.DefaultAssumptions())
	simulationService := simulation.NewService(interpreter, builder, adjuster, cache, config.SimulationTTL)

	// Create router
	router := api.NewRouter(
		logger,
		handlers.NewBusinessHandler(businessService, accountService),
		handlers.NewAccountHandler(accountService),
		handlers.NewCategoryHandler(categoryService),
		handlers.NewTransactionHandler(ledgerService),
		handlers.NewReportHandler(reportService),
		handlers.NewSimulationHandler(simulationService),
	)

	lambda.Start(router.HandleRequest)
}
