package api

import (
	"github.com/gofiber/fiber/v2"
	v1 "github.com/prepkit/payment-service/internal/api/v1"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler) {
	app.Get("/ping", handler.Pong)
	app.Get(prefixV1+"/packages", handler.GetPackages)
	app.Post(prefixV1+"/payments", handler.CreatePayment)
	app.Post(prefixV1+"/payments/notification", handler.Notification)
	app.Get(prefixV1+"/payments/:orderID/status", handler.CheckStatus)
	app.Get(prefixV1+"/users/:userID/payments", handler.GetHistory)
	app.Get(prefixV1+"/users/:userID/balance", handler.GetBalance)
}
