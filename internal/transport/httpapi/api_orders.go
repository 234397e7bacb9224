package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	ordersapp "github.com/itay19101973/E-commerce-system/internal/domains/orders/application"
	ordersports "github.com/itay19101973/E-commerce-system/internal/domains/orders/ports"
)

// OrdersAPI wires HTTP transport with the order lifecycle engine. Execution
// goes through the orchestrator so it can run as a durable workflow when
// one is configured.
type OrdersAPI struct {
	service   ordersports.Service
	execution ordersports.ExecutionOrchestrator
}

// NewOrdersAPI creates an OrdersAPI backed by the provided service.
func NewOrdersAPI(service ordersports.Service, execution ordersports.ExecutionOrchestrator) OrdersAPI {
	return OrdersAPI{service: service, execution: execution}
}

type orderItemPayload struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items []orderItemPayload `json:"items" binding:"required"`
}

type orderIDRequest struct {
	ID int64 `json:"id" binding:"required"`
}

type updateOrderRequest struct {
	ID    int64              `json:"id" binding:"required"`
	Items []orderItemPayload `json:"items" binding:"required"`
}

type orderItemResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

type orderResponse struct {
	ID        int64               `json:"id"`
	CreatedAt string              `json:"created_at"`
	Executed  bool                `json:"executed"`
	Items     []orderItemResponse `json:"items"`
}

type executionLineResponse struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Requested   int64   `json:"requested"`
	Deducted    int64   `json:"deducted"`
	UnitPrice   float64 `json:"unit_price"`
}

type executionReportResponse struct {
	OrderID    int64                   `json:"order_id"`
	TotalPrice float64                 `json:"total_price"`
	Items      []executionLineResponse `json:"items"`
}

// Post /orders/
// Create a pending order with price snapshots
func (api *OrdersAPI) CreateOrder(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing caller identity"))
		return
	}
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), caller, toItemRequests(payload.Items))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": order.ID})
}

// Get /orders/
// List the caller's orders with resolved product names
func (api *OrdersAPI) GetOrders(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing caller identity"))
		return
	}
	projections, err := api.service.GetOrdersForUser(c.Request.Context(), caller)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	orders := make([]orderResponse, 0, len(projections))
	for _, projection := range projections {
		orders = append(orders, toOrderResponse(projection))
	}
	c.JSON(http.StatusOK, gin.H{
		"user":   strconv.FormatInt(caller, 10),
		"orders": orders,
	})
}

// Post /orders/execute
// One-way transition: deduct inventory and finalize the total
func (api *OrdersAPI) ExecuteOrder(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing caller identity"))
		return
	}
	var payload orderIDRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	report, err := api.executeOrder(c, payload.ID, caller)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":     "order " + strconv.FormatInt(payload.ID, 10) + " executed successfully.",
		"details": toExecutionReportResponse(report),
	})
}

func (api *OrdersAPI) executeOrder(c *gin.Context, orderID, caller int64) (*ordersports.ExecutionReport, error) {
	input := ordersports.ExecutionInput{OrderID: orderID, CallerID: caller}
	if api.execution != nil {
		return api.execution.ExecuteOrder(c.Request.Context(), input)
	}
	return api.service.ExecuteOrder(c.Request.Context(), orderID, caller)
}

// Post /orders/update
// Atomically replace the item set of a pending order
func (api *OrdersAPI) UpdateOrder(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing caller identity"))
		return
	}
	var payload updateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	projection, err := api.service.ReplaceOrderItems(c.Request.Context(), payload.ID, caller, toItemRequests(payload.Items))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"msg":     "order " + strconv.FormatInt(payload.ID, 10) + " updated successfully.",
		"details": toOrderResponse(projection),
	})
}

// Delete /orders/delete
// Remove an owned order, executed or not
func (api *OrdersAPI) DeleteOrder(c *gin.Context) {
	caller, ok := callerID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, errors.New("missing caller identity"))
		return
	}
	var payload orderIDRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), payload.ID, caller); err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "order " + strconv.FormatInt(payload.ID, 10) + " deleted successfully."})
}

// respondOrderServiceError classifies lifecycle errors. Ownership
// mismatches and missing orders both map to 400 so the API does not leak
// which orders exist.
func respondOrderServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, ordersports.ErrProductNotFound),
		errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, ordersapp.ErrNotOwned),
		errors.Is(err, ordersports.ErrAlreadyExecuted):
		respondError(c, http.StatusBadRequest, err)
	default:
		respondError(c, http.StatusInternalServerError, err)
	}
}

func toItemRequests(items []orderItemPayload) []ordersports.ItemRequest {
	requests := make([]ordersports.ItemRequest, 0, len(items))
	for _, item := range items {
		requests = append(requests, ordersports.ItemRequest{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return requests
}

func toOrderResponse(projection *ordersports.OrderProjection) orderResponse {
	response := orderResponse{
		ID:        projection.Order.ID,
		CreatedAt: projection.Order.CreatedAt.UTC().Format(time.RFC3339),
		Executed:  projection.Order.Executed,
		Items:     make([]orderItemResponse, 0, len(projection.Items)),
	}
	for _, item := range projection.Items {
		response.Items = append(response.Items, orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return response
}

func toExecutionReportResponse(report *ordersports.ExecutionReport) executionReportResponse {
	response := executionReportResponse{
		OrderID:    report.OrderID,
		TotalPrice: report.TotalPrice,
		Items:      make([]executionLineResponse, 0, len(report.Lines)),
	}
	for _, line := range report.Lines {
		response.Items = append(response.Items, executionLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Requested:   line.Requested,
			Deducted:    line.Deducted,
			UnitPrice:   line.UnitPrice,
		})
	}
	return response
}
