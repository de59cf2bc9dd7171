package api

import (
	"net/http"

	reqdto "rental-booking/internal/handler/dto/request"
	resdto "rental-booking/internal/handler/dto/response"
	"rental-booking/internal/handler/httperr"
	"rental-booking/internal/pkg/errs"
	"rental-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	cmds commands.PaymentCommands
}

func NewPaymentHandler(cmds commands.PaymentCommands) *PaymentHandler {
	return &PaymentHandler{cmds: cmds}
}

// @Summary Create a payment intent
// @Description Creates a provider payment intent for the amount the booking currently owes. Amount is in minor units; 0 lets the server decide.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreatePaymentIntentRequest true "Intent request"
// @Success 200 {object} resdto.PaymentIntentResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Router /payment/create-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req reqdto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err)
		return
	}

	result, err := h.cmds.CreateIntent(c.Request.Context(), userID, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.PaymentIntentResponse{
		ClientSecret:    result.ClientSecret,
		PaymentIntentID: result.PaymentIntentID,
		Amount:          result.AmountCents,
	})
}

// @Summary Payment provider webhook
// @Description Verifies the Stripe-Signature header and applies successful payment events.
// @Tags payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Provider signature"
// @Success 200 {object} resdto.WebhookAck
// @Failure 400 {object} httperr.Response
// @Router /payment/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		httperr.Respond(c, errs.Mark(errs.Wrap(err, "read webhook body"), errs.ErrInvalidWebhook))
		return
	}

	if err := h.cmds.HandleWebhook(c.Request.Context(), payload, c.GetHeader(headerStripeSignature)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.WebhookAck{Received: true})
}
