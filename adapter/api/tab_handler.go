package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	catalogQueries "github.com/comanda-app/comanda/internal/catalog/application/queries"
	catalogDomain "github.com/comanda-app/comanda/internal/catalog/domain"
	"github.com/comanda-app/comanda/internal/consumption/application/commands"
	consumptionQueries "github.com/comanda-app/comanda/internal/consumption/application/queries"
	consumptionDomain "github.com/comanda-app/comanda/internal/consumption/domain"
	"github.com/comanda-app/comanda/internal/consumption/infrastructure/persistence"
	customerQueries "github.com/comanda-app/comanda/internal/customer/application/queries"
	customerDomain "github.com/comanda-app/comanda/internal/customer/domain"
	sharedDomain "github.com/comanda-app/comanda/internal/shared/domain"
	"github.com/google/uuid"
)

// TabHandler handles tab API requests.
type TabHandler struct {
	registerConsumption *commands.RegisterConsumptionHandler
	confirmPayment      *commands.ConfirmPaymentHandler
	generatePixPayment  *commands.GeneratePixPaymentHandler
	listConsumptions    *consumptionQueries.ListCustomerConsumptionsHandler
	getDetails          *consumptionQueries.GetConsumptionDetailsHandler
	identifyCustomer    *customerQueries.IdentifyCustomerHandler
	listProducts        *catalogQueries.ListAvailableProductsHandler
	logger              *slog.Logger
}

// TabHandlerConfig holds dependencies for the tab handler.
type TabHandlerConfig struct {
	RegisterConsumption *commands.RegisterConsumptionHandler
	ConfirmPayment      *commands.ConfirmPaymentHandler
	GeneratePixPayment  *commands.GeneratePixPaymentHandler
	ListConsumptions    *consumptionQueries.ListCustomerConsumptionsHandler
	GetDetails          *consumptionQueries.GetConsumptionDetailsHandler
	IdentifyCustomer    *customerQueries.IdentifyCustomerHandler
	ListProducts        *catalogQueries.ListAvailableProductsHandler
	Logger              *slog.Logger
}

// NewTabHandler creates a new tab handler.
func NewTabHandler(cfg TabHandlerConfig) *TabHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TabHandler{
		registerConsumption: cfg.RegisterConsumption,
		confirmPayment:      cfg.ConfirmPayment,
		generatePixPayment:  cfg.GeneratePixPayment,
		listConsumptions:    cfg.ListConsumptions,
		getDetails:          cfg.GetDetails,
		identifyCustomer:    cfg.IdentifyCustomer,
		listProducts:        cfg.ListProducts,
		logger:              cfg.Logger,
	}
}

type registerTabItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type registerTabRequest struct {
	CustomerID string                   `json:"customer_id"`
	Items      []registerTabItemRequest `json:"items"`
}

type tabResponse struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customer_id,omitempty"`
	TotalAmount int64  `json:"total_amount"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at,omitempty"`
}

type tabItemResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

type tabDetailsResponse struct {
	tabResponse
	PaymentReference string            `json:"payment_reference,omitempty"`
	PaidAt           string            `json:"paid_at,omitempty"`
	Items            []tabItemResponse `json:"items"`
}

// RegisterTab handles POST /api/v1/tabs
func (h *TabHandler) RegisterTab(w http.ResponseWriter, r *http.Request) {
	var req registerTabRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer_id")
		return
	}

	cmd := commands.RegisterConsumptionCommand{
		CustomerID: customerID,
		Items:      make([]commands.RegisterConsumptionItem, 0, len(req.Items)),
	}
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid product_id")
			return
		}
		cmd.Items = append(cmd.Items, commands.RegisterConsumptionItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.registerConsumption.Handle(r.Context(), cmd)
	if err != nil {
		h.writeDomainError(w, err, "failed to register tab")
		return
	}

	writeJSON(w, http.StatusCreated, tabResponse{
		ID:          result.ConsumptionID.String(),
		CustomerID:  customerID.String(),
		TotalAmount: result.TotalAmount,
		Status:      string(result.Status),
	})
}

// ListTabs handles GET /api/v1/tabs
func (h *TabHandler) ListTabs(w http.ResponseWriter, r *http.Request) {
	customerParam := r.URL.Query().Get("customer_id")
	if customerParam == "" {
		writeError(w, http.StatusBadRequest, "Query parameter 'customer_id' is required")
		return
	}
	customerID, err := uuid.Parse(customerParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid customer_id")
		return
	}

	query := consumptionQueries.ListCustomerConsumptionsQuery{
		CustomerID: customerID,
		Status:     r.URL.Query().Get("status"),
		Payable:    r.URL.Query().Get("payable") == "true",
	}

	tabs, err := h.listConsumptions.Handle(r.Context(), query)
	if err != nil {
		h.writeDomainError(w, err, "failed to list tabs")
		return
	}

	responses := make([]tabResponse, len(tabs))
	for i, tab := range tabs {
		responses[i] = tabResponse{
			ID:          tab.ID.String(),
			CustomerID:  tab.CustomerID.String(),
			TotalAmount: tab.TotalAmount,
			Status:      tab.Status,
			CreatedAt:   tab.CreatedAt.UTC().Format(time.RFC3339),
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tabs":  responses,
		"total": len(responses),
	})
}

// GetTab handles GET /api/v1/tabs/{tabID}
func (h *TabHandler) GetTab(w http.ResponseWriter, r *http.Request) {
	tabID, err := uuid.Parse(r.PathValue("tabID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tab ID")
		return
	}

	details, err := h.getDetails.Handle(r.Context(), consumptionQueries.GetConsumptionDetailsQuery{
		ConsumptionID: tabID,
	})
	if err != nil {
		h.writeDomainError(w, err, "failed to get tab")
		return
	}

	response := tabDetailsResponse{
		tabResponse: tabResponse{
			ID:          details.ID.String(),
			CustomerID:  details.CustomerID.String(),
			TotalAmount: details.TotalAmount,
			Status:      details.Status,
			CreatedAt:   details.CreatedAt.UTC().Format(time.RFC3339),
		},
		PaymentReference: details.PaymentReference,
		Items:            make([]tabItemResponse, len(details.Items)),
	}
	if details.PaidAt != nil {
		response.PaidAt = details.PaidAt.UTC().Format(time.RFC3339)
	}
	for i, item := range details.Items {
		response.Items[i] = tabItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

type confirmPaymentRequest struct {
	PaymentReference string `json:"payment_reference"`
}

// ConfirmPayment handles POST /api/v1/tabs/{tabID}/payment
func (h *TabHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	tabID, err := uuid.Parse(r.PathValue("tabID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tab ID")
		return
	}

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	err = h.confirmPayment.Handle(r.Context(), commands.ConfirmPaymentCommand{
		ConsumptionID:    tabID,
		PaymentReference: req.PaymentReference,
	})
	if err != nil {
		h.writeDomainError(w, err, "failed to confirm payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     tabID.String(),
		"status": string(consumptionDomain.StatusPaid),
	})
}

type generatePixRequest struct {
	ConsumptionIDs []string `json:"consumption_ids"`
}

type generatePixResponse struct {
	Amount    int64  `json:"amount"`
	PaymentID string `json:"payment_id"`
	Code      string `json:"code"`
}

// GeneratePixPayment handles POST /api/v1/payments/pix
func (h *TabHandler) GeneratePixPayment(w http.ResponseWriter, r *http.Request) {
	var req generatePixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ids := make([]uuid.UUID, 0, len(req.ConsumptionIDs))
	for _, raw := range req.ConsumptionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid consumption id")
			return
		}
		ids = append(ids, id)
	}

	result, err := h.generatePixPayment.Handle(r.Context(), commands.GeneratePixPaymentCommand{
		ConsumptionIDs: ids,
	})
	if err != nil {
		h.writeDomainError(w, err, "failed to generate pix payment")
		return
	}

	writeJSON(w, http.StatusCreated, generatePixResponse{
		Amount:    result.Amount,
		PaymentID: result.PaymentID,
		Code:      result.Code,
	})
}

// ListProducts handles GET /api/v1/products
func (h *TabHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listProducts.Handle(r.Context(), catalogQueries.ListAvailableProductsQuery{})
	if err != nil {
		h.writeDomainError(w, err, "failed to list products")
		return
	}

	type productResponse struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	responses := make([]productResponse, len(products))
	for i, p := range products {
		responses[i] = productResponse{
			ID:    p.ID.String(),
			Name:  p.Name,
			Price: p.Price,
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"products": responses,
		"total":    len(responses),
	})
}

// GetCustomer handles GET /api/v1/customers/{customerID}
//
// The path segment is either the customer's id or their tax id. Formatted CPF
// values are accepted.
func (h *TabHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("customerID")
	query := customerQueries.IdentifyCustomerQuery{TaxID: raw}
	if id, err := uuid.Parse(raw); err == nil {
		query = customerQueries.IdentifyCustomerQuery{CustomerID: id}
	}

	customer, err := h.identifyCustomer.Handle(r.Context(), query)
	if err != nil {
		h.writeDomainError(w, err, "failed to identify customer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"id":        customer.ID.String(),
		"full_name": customer.FullName,
		"tax_id":    customer.TaxID,
	})
}

// writeDomainError maps application and domain errors to HTTP responses.
func (h *TabHandler) writeDomainError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, commands.ErrConsumptionNotFound),
		errors.Is(err, consumptionQueries.ErrConsumptionNotFound),
		errors.Is(err, customerDomain.ErrNotFound),
		errors.Is(err, catalogDomain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, commands.ErrNoConsumptions),
		errors.Is(err, commands.ErrDuplicateConsumptionIDs),
		errors.Is(err, consumptionDomain.ErrInvalidQuantity),
		errors.Is(err, consumptionDomain.ErrInvalidUnitPrice),
		errors.Is(err, consumptionDomain.ErrNoItems),
		errors.Is(err, consumptionDomain.ErrDuplicateProduct),
		errors.Is(err, consumptionDomain.ErrInvalidTotalAmount),
		errors.Is(err, consumptionDomain.ErrPaymentReferenceRequired),
		errors.Is(err, sharedDomain.ErrInvalidTaxID):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, commands.ErrCustomerMismatch),
		errors.Is(err, commands.ErrNotPayable),
		errors.Is(err, consumptionDomain.ErrAlreadyPaid),
		errors.Is(err, consumptionDomain.ErrNotDraft),
		errors.Is(err, consumptionDomain.ErrIllegalTransition),
		errors.Is(err, persistence.ErrOptimisticLocking):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
