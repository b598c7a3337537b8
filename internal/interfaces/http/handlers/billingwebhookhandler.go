package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	billingapp "luminara/internal/application/billing"
	"luminara/internal/shared/logger"
	"luminara/internal/shared/utils"
)

// BillingWebhookHandler receives subscription lifecycle events from the
// billing provider. It is the only write path into subscription state; the
// access engine always reads what this handler last synced.
type BillingWebhookHandler struct {
	syncUseCase   *billingapp.SyncSubscriptionUseCase
	webhookSecret string
	logger        logger.Interface
}

func NewBillingWebhookHandler(
	syncUseCase *billingapp.SyncSubscriptionUseCase,
	webhookSecret string,
	logger logger.Interface,
) *BillingWebhookHandler {
	return &BillingWebhookHandler{
		syncUseCase:   syncUseCase,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

type SubscriptionWebhookPayload struct {
	UserSID         string    `json:"user_sid" validate:"required"`
	SubscriptionSID string    `json:"subscription_sid" validate:"required"`
	Plan            string    `json:"plan" validate:"required"`
	Status          string    `json:"status" validate:"required"`
	PeriodStart     time.Time `json:"period_start" validate:"required"`
	PeriodEnd       time.Time `json:"period_end" validate:"required"`
}

// HandleSubscriptionEvent verifies the shared secret and syncs the
// subscription snapshot.
func (h *BillingWebhookHandler) HandleSubscriptionEvent(c *gin.Context) {
	provided := c.GetHeader("X-Webhook-Secret")
	if h.webhookSecret == "" ||
		subtle.ConstantTimeCompare([]byte(provided), []byte(h.webhookSecret)) != 1 {
		h.logger.Warnw("billing webhook rejected", "remote", c.ClientIP())
		utils.ErrorResponse(c, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var payload SubscriptionWebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(payload); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	err := h.syncUseCase.Execute(c.Request.Context(), billingapp.SyncSubscriptionCommand{
		UserSID:         payload.UserSID,
		SubscriptionSID: payload.SubscriptionSID,
		Plan:            payload.Plan,
		Status:          payload.Status,
		PeriodStart:     payload.PeriodStart,
		PeriodEnd:       payload.PeriodEnd,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, gin.H{"synced": true, "subscription_sid": payload.SubscriptionSID})
}
