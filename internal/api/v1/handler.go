package v1

import (
	"github.com/gofiber/fiber/v2"
	"github.com/prepkit/payment-service/internal/api/contract"
	"github.com/prepkit/payment-service/internal/api/validator"
	"github.com/prepkit/payment-service/internal/catalog"
	"github.com/prepkit/payment-service/internal/constants"
	"github.com/prepkit/payment-service/internal/service"
	"go.uber.org/zap"
)

type Handler struct {
	logger     *zap.Logger
	catalog    catalog.Catalog
	workflow   service.PaymentWorkflowService
	balance    service.BalanceService
	XValidator validator.IXValidator
}

func NewHandler(logger *zap.Logger, catalog catalog.Catalog, workflow service.PaymentWorkflowService,
	balance service.BalanceService, XValidator validator.IXValidator) *Handler {
	return &Handler{
		logger:     logger,
		catalog:    catalog,
		workflow:   workflow,
		balance:    balance,
		XValidator: XValidator,
	}
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) GetPackages(c *fiber.Ctx) error {
	return c.JSON(contract.Response{Code: "success", Result: h.catalog.All()})
}

func (h *Handler) CreatePayment(c *fiber.Ctx) error {
	var request CreatePaymentRequest

	responseError := h.XValidator.Validator(&request, constants.MessageErrorFormat, c)
	if responseError.Code != "" {
		h.logger.Warn("Invalid create payment request", zap.Any("request", request))
		return c.JSON(responseError)
	}

	cmd := service.CreatePaymentCommand{
		UserID:    request.UserID,
		PackageID: request.PackageType,
		Customer: service.CustomerDetails{
			FirstName: request.Customer.FirstName,
			Email:     request.Customer.Email,
			Phone:     request.Customer.Phone,
		},
	}

	result, err := h.workflow.CreatePayment(c.UserContext(), cmd)
	if err != nil {
		h.logger.Error("Failed to create payment",
			zap.Error(err),
			zap.String("userID", request.UserID),
			zap.String("package", request.PackageType))
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(contract.Response{Code: "success", Result: result})
}

// Notification receives the gateway webhook. The raw body goes to
// verification untouched; once the payload verifies, the response is always a
// success acknowledgment so the provider stops redelivering.
func (h *Handler) Notification(c *fiber.Ctx) error {
	result, err := h.workflow.HandleNotification(c.UserContext(), c.Body())
	if err != nil {
		return err
	}

	if !result.Known {
		h.logger.Warn("Acknowledged notification for unknown order",
			zap.String("orderID", result.OrderID))
	}

	return c.JSON(contract.Response{Code: "success", Message: "notification processed"})
}

func (h *Handler) CheckStatus(c *fiber.Ctx) error {
	orderID := c.Params("orderID")

	payment, err := h.workflow.CheckStatus(c.UserContext(), orderID)
	if err != nil {
		h.logger.Error("Failed to check payment status",
			zap.Error(err),
			zap.String("orderID", orderID))
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: toPaymentResponse(payment)})
}

func (h *Handler) GetHistory(c *fiber.Ctx) error {
	userID := c.Params("userID")
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	history, err := h.balance.GetHistory(userID, page, limit)
	if err != nil {
		h.logger.Error("Failed to get payment history",
			zap.Error(err),
			zap.String("userID", userID))
		return err
	}

	payments := make([]PaymentResponse, 0, len(history.Payments))
	for _, p := range history.Payments {
		payments = append(payments, toPaymentResponse(p))
	}

	return c.JSON(contract.Response{Code: "success", Result: PaymentHistoryResponse{
		Payments:   payments,
		Total:      history.Total,
		Page:       history.Page,
		TotalPages: history.TotalPages,
	}})
}

func (h *Handler) GetBalance(c *fiber.Ctx) error {
	userID := c.Params("userID")

	ub, err := h.balance.GetBalance(userID)
	if err != nil {
		return err
	}

	return c.JSON(contract.Response{Code: "success", Result: BalanceResponse{
		UserID:       ub.UserID,
		TokenBalance: ub.Balance,
	}})
}
