package tab

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/comanda-app/comanda/adapter/cli"
	internalApp "github.com/comanda-app/comanda/internal/app"
	consumptionQueries "github.com/comanda-app/comanda/internal/consumption/application/queries"
	"github.com/comanda-app/comanda/pkg/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testCustomerID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testProductID  = uuid.MustParse("00000000-0000-0000-0000-000000000002")
)

// setupTestApp creates a test application backed by a temp SQLite database
// seeded with one customer and one product.
func setupTestApp(t *testing.T) *cli.App {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")

	cfg := &config.Config{
		AppEnv:             "development",
		LogLevel:           "error",
		DBDriver:           "sqlite",
		SQLitePath:         dbPath,
		OutboxPollInterval: 100 * time.Millisecond,
		OutboxBatchSize:    100,
		OutboxMaxRetries:   5,
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(container.Close)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = container.SQLiteDB.Exec(
		`INSERT INTO customers (id, full_name, tax_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		testCustomerID.String(), "Maria Oliveira", "52998224725", now, now,
	)
	require.NoError(t, err)
	_, err = container.SQLiteDB.Exec(
		`INSERT INTO products (id, name, price, active, created_at, updated_at) VALUES (?, ?, ?, 1, ?, ?)`,
		testProductID.String(), "Chopp Pilsen 500ml", 1200, now, now,
	)
	require.NoError(t, err)

	return cli.NewApp(
		container.RegisterConsumptionHandler,
		container.ConfirmPaymentHandler,
		container.GeneratePixPaymentHandler,
		container.ListCustomerConsumptionsHandler,
		container.GetConsumptionDetailsHandler,
		container.IdentifyCustomerHandler,
		container.ListAvailableProductsHandler,
	)
}

func TestRegisterCmd_RegistersTab(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	registerCustomerID = testCustomerID.String()
	registerItems = []string{testProductID.String() + ":2"}
	registerCmd.SetContext(ctx)

	require.NoError(t, registerCmd.RunE(registerCmd, nil))

	tabs, err := app.ListCustomerConsumptionsHandler.Handle(ctx, consumptionQueries.ListCustomerConsumptionsQuery{
		CustomerID: testCustomerID,
	})
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, "PENDING", tabs[0].Status)
	assert.Equal(t, int64(2400), tabs[0].TotalAmount)
}

func TestRegisterCmd_InvalidCustomerID(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	registerCustomerID = "not-a-uuid"
	registerItems = []string{testProductID.String() + ":1"}
	registerCmd.SetContext(context.Background())

	err := registerCmd.RunE(registerCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid customer ID")
}

func TestRegisterCmd_UnknownProduct(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	registerCustomerID = testCustomerID.String()
	registerItems = []string{uuid.New().String() + ":1"}
	registerCmd.SetContext(context.Background())

	err := registerCmd.RunE(registerCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product not found")
}

func TestPayCmd_MarksTabPaid(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	ctx := context.Background()

	registerCustomerID = testCustomerID.String()
	registerItems = []string{testProductID.String() + ":3"}
	registerCmd.SetContext(ctx)
	require.NoError(t, registerCmd.RunE(registerCmd, nil))

	tabs, err := app.ListCustomerConsumptionsHandler.Handle(ctx, consumptionQueries.ListCustomerConsumptionsQuery{
		CustomerID: testCustomerID,
	})
	require.NoError(t, err)
	require.Len(t, tabs, 1)

	payReference = "pix-9921"
	payCmd.SetContext(ctx)
	require.NoError(t, payCmd.RunE(payCmd, []string{tabs[0].ID.String()}))

	details, err := app.GetConsumptionDetailsHandler.Handle(ctx, consumptionQueries.GetConsumptionDetailsQuery{
		ConsumptionID: tabs[0].ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "PAID", details.Status)
	assert.Equal(t, "pix-9921", details.PaymentReference)
	assert.NotNil(t, details.PaidAt)
}

func TestPayCmd_InvalidTabID(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	payReference = "pix-1"
	payCmd.SetContext(context.Background())

	err := payCmd.RunE(payCmd, []string{"not-a-uuid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid tab ID")
}

func TestListCmd_EmptyList(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	listCustomerID = testCustomerID.String()
	listStatus = ""
	listPayable = false
	listCmd.SetContext(context.Background())

	require.NoError(t, listCmd.RunE(listCmd, nil))
}

func TestShowCmd_NotFound(t *testing.T) {
	app := setupTestApp(t)

	cli.SetApp(app)
	defer cli.SetApp(nil)

	showCmd.SetContext(context.Background())

	// Unknown tabs print a message instead of failing
	require.NoError(t, showCmd.RunE(showCmd, []string{uuid.New().String()}))
}

func TestRegisterCmd_NoApp(t *testing.T) {
	cli.SetApp(nil)

	registerCmd.SetContext(context.Background())

	// The command returns nil but prints a message
	require.NoError(t, registerCmd.RunE(registerCmd, nil))
}

func TestParseItems(t *testing.T) {
	productID := uuid.New()

	items, err := parseItems([]string{productID.String() + ":2"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, productID, items[0].ProductID)
	assert.Equal(t, int64(2), items[0].Quantity)

	_, err = parseItems([]string{"missing-separator"})
	assert.Error(t, err)

	_, err = parseItems([]string{"not-a-uuid:2"})
	assert.Error(t, err)

	_, err = parseItems([]string{productID.String() + ":two"})
	assert.Error(t, err)
}
