package cli

import (
	catalogQueries "github.com/comanda-app/comanda/internal/catalog/application/queries"
	"github.com/comanda-app/comanda/internal/consumption/application/commands"
	consumptionQueries "github.com/comanda-app/comanda/internal/consumption/application/queries"
	customerQueries "github.com/comanda-app/comanda/internal/customer/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Command Handlers
	RegisterConsumptionHandler *commands.RegisterConsumptionHandler
	ConfirmPaymentHandler      *commands.ConfirmPaymentHandler
	GeneratePixPaymentHandler  *commands.GeneratePixPaymentHandler

	// Query Handlers
	ListCustomerConsumptionsHandler *consumptionQueries.ListCustomerConsumptionsHandler
	GetConsumptionDetailsHandler    *consumptionQueries.GetConsumptionDetailsHandler
	IdentifyCustomerHandler         *customerQueries.IdentifyCustomerHandler
	ListAvailableProductsHandler    *catalogQueries.ListAvailableProductsHandler
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	registerConsumptionHandler *commands.RegisterConsumptionHandler,
	confirmPaymentHandler *commands.ConfirmPaymentHandler,
	generatePixPaymentHandler *commands.GeneratePixPaymentHandler,
	listCustomerConsumptionsHandler *consumptionQueries.ListCustomerConsumptionsHandler,
	getConsumptionDetailsHandler *consumptionQueries.GetConsumptionDetailsHandler,
	identifyCustomerHandler *customerQueries.IdentifyCustomerHandler,
	listAvailableProductsHandler *catalogQueries.ListAvailableProductsHandler,
) *App {
	return &App{
		RegisterConsumptionHandler:      registerConsumptionHandler,
		ConfirmPaymentHandler:           confirmPaymentHandler,
		GeneratePixPaymentHandler:       generatePixPaymentHandler,
		ListCustomerConsumptionsHandler: listCustomerConsumptionsHandler,
		GetConsumptionDetailsHandler:    getConsumptionDetailsHandler,
		IdentifyCustomerHandler:         identifyCustomerHandler,
		ListAvailableProductsHandler:    listAvailableProductsHandler,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
