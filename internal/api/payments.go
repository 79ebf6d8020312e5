package api

import (
	"errors"
	"net/http"

	"fittrack/internal/service"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type paymentRoutes struct {
	ps service.PaymentServiceI
}

func NewPaymentRoutes(handler *gin.RouterGroup, ps service.PaymentServiceI, a *auth.JWTAuth) {
	r := &paymentRoutes{ps: ps}
	h := handler.Group("/payments")
	h.Use(a.BearerAuthMiddleware())
	{
		h.POST("/order", r.CreateOrder)
		h.POST("/verify", r.Verify)
	}
}

type CreateOrderRequest struct {
	Plan string `json:"plan"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

func (r *paymentRoutes) CreateOrder(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	payment, err := r.ps.CreateOrder(c.Request.Context(), userID, req.Plan)
	if err != nil {
		respondError(c, err, "failed to create payment order")
		return
	}

	log.Info("payment order created",
		zap.Int64("user_id", userID),
		zap.String("order_id", payment.OrderID),
		zap.String("plan", payment.Plan),
	)

	c.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID:  payment.OrderID,
		Amount:   payment.Amount,
		Currency: payment.Currency,
		KeyID:    r.ps.KeyID(),
	})
}

func (r *paymentRoutes) Verify(c *gin.Context) {
	log := logger.Logger()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Info("failed to bind request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	payment, err := r.ps.VerifyPayment(c.Request.Context(), userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSignature) {
			log.Warn("payment signature mismatch", zap.Int64("user_id", userID), zap.String("order_id", req.OrderID))
		}
		respondError(c, err, "failed to verify payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"orderId":  payment.OrderID,
		"status":   payment.Status,
		"isMember": true,
	})
}
