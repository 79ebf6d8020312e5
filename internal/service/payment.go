package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"fittrack/internal/model"
	"fittrack/internal/repository"
	"fittrack/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentConfig carries the gateway credentials and plan prices. Amounts are
// in the currency's smallest unit.
type PaymentConfig struct {
	KeyID     string
	KeySecret string
	Currency  string
	Plans     map[string]int64
}

type PaymentService struct {
	repo     PaymentRepository
	gateway  PaymentGateway
	notifier MembershipNotifier
	config   PaymentConfig
}

func NewPaymentService(repo PaymentRepository, gateway PaymentGateway, notifier MembershipNotifier, config PaymentConfig) *PaymentService {
	if config.Currency == "" {
		config.Currency = "INR"
	}

	return &PaymentService{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		config:   config,
	}
}

func (s *PaymentService) KeyID() string {
	return s.config.KeyID
}

func (s *PaymentService) CreateOrder(ctx context.Context, userID int64, plan string) (*model.Payment, error) {
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return nil, validationError("plan is required")
	}
	amount, ok := s.config.Plans[plan]
	if !ok {
		return nil, ErrUnknownPlan
	}

	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, mapUserError("failed to get user", err)
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20]

	orderID, err := s.gateway.CreateOrder(ctx, amount, s.config.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	payment := &model.Payment{
		OrderID:  orderID,
		UserID:   userID,
		Plan:     plan,
		Amount:   amount,
		Currency: s.config.Currency,
		Receipt:  receipt,
		Status:   model.PaymentCreated,
	}

	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, persistenceError("failed to store payment order", err)
	}

	return payment, nil
}

// VerifyPayment checks the gateway signature for the order and, when it
// matches, marks the order paid and activates membership.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID int64, orderID, paymentID, signature string) (*model.Payment, error) {
	if orderID == "" || paymentID == "" || signature == "" {
		return nil, validationError("orderId, paymentId and signature are required")
	}

	payment, err := s.repo.GetPayment(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceError("failed to get payment order", err)
	}
	if payment.UserID != userID {
		return nil, ErrOrderNotFound
	}

	if !s.validSignature(orderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	wasPaid := payment.Status == model.PaymentPaid

	payment, err = s.repo.CompletePayment(ctx, orderID, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, persistenceError("failed to complete payment", err)
	}

	if !wasPaid {
		s.notify(ctx, userID, payment)
	}

	return payment, nil
}

func (s *PaymentService) validSignature(orderID, paymentID, signature string) bool {
	expected := SignPayment(s.config.KeySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (s *PaymentService) notify(ctx context.Context, userID int64, payment *model.Payment) {
	if s.notifier == nil {
		return
	}

	log := logger.Logger()

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		log.Warn("Failed to load user for membership notification", zap.Int64("user_id", userID), zap.Error(err))
		return
	}

	if err := s.notifier.NotifyMembership(ctx, user, payment); err != nil {
		log.Warn("Failed to send membership notification", zap.Int64("user_id", userID), zap.Error(err))
	}
}

// SignPayment returns the signature the gateway produces for a payment.
func SignPayment(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
