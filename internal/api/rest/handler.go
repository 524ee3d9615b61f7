package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/parentshield/notifier/internal/adapter"
	"github.com/parentshield/notifier/internal/api/middleware"
	"github.com/parentshield/notifier/internal/api/rest/dto"
	"github.com/parentshield/notifier/internal/domain"
	"github.com/parentshield/notifier/internal/store"
	"github.com/parentshield/notifier/internal/store/schema"
	"github.com/parentshield/notifier/internal/webhook"
)

// Dispatcher is the webhook delivery surface the handlers depend on
type Dispatcher interface {
	TriggerDetached(ownerID string, eventType domain.EventType, payload map[string]interface{})
	SendTest(ctx context.Context, sub *schema.WebhookSubscription) (*schema.WebhookDelivery, error)
}

// Handler defines the REST API handler interface
type Handler interface {
	HealthCheck(c *gin.Context)
	CreateWebhook(c *gin.Context)
	ListWebhooks(c *gin.Context)
	ListEventTypes(c *gin.Context)
	GetWebhook(c *gin.Context)
	UpdateWebhook(c *gin.Context)
	DeleteWebhook(c *gin.Context)
	TestWebhook(c *gin.Context)
	ListDeliveries(c *gin.Context)
	CreateAlert(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	store      store.Store
	dispatcher Dispatcher
	clock      adapter.Clock
}

// NewHandler creates a new REST API handler
func NewHandler(st store.Store, dispatcher Dispatcher, clock adapter.Clock) Handler {
	return &handler{
		store:      st,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// HealthCheck handles GET /health
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateWebhook handles POST /api/v1/webhooks
func (h *handler) CreateWebhook(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		respondForbidden(c, "webhook management requires an account token")
		return
	}

	var req dto.CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		respondValidationError(c, apiErr)
		return
	}

	secret, err := webhook.NewSecret()
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook")
		return
	}

	events, err := json.Marshal(req.Events)
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook")
		return
	}

	now := h.clock.Now()
	sub := &schema.WebhookSubscription{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		URL:         req.URL,
		Secret:      secret,
		Events:      datatypes.JSON(events),
		IsActive:    true,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.store.CreateSubscription(c.Request.Context(), sub); err != nil {
		respondInternalError(c, err, "Failed to create webhook")
		return
	}

	// The secret appears in this response and nowhere else
	c.JSON(http.StatusCreated, dto.WebhookCreatedResponse{
		WebhookResponse: dto.NewWebhookResponse(sub),
		Secret:          secret,
	})
}

// ListWebhooks handles GET /api/v1/webhooks
func (h *handler) ListWebhooks(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		respondForbidden(c, "webhook management requires an account token")
		return
	}

	subs, err := h.store.ListSubscriptions(c.Request.Context(), ownerID)
	if err != nil {
		respondInternalError(c, err, "Failed to list webhooks")
		return
	}

	responses := make([]dto.WebhookResponse, 0, len(subs))
	for _, sub := range subs {
		responses = append(responses, dto.NewWebhookResponse(sub))
	}
	c.JSON(http.StatusOK, responses)
}

// ListEventTypes handles GET /api/v1/webhooks/events
func (h *handler) ListEventTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": dto.NewEventTypeCatalog()})
}

// GetWebhook handles GET /api/v1/webhooks/:id
func (h *handler) GetWebhook(c *gin.Context) {
	sub, ok := h.ownedSubscription(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewWebhookResponse(sub))
}

// UpdateWebhook handles PUT /api/v1/webhooks/:id
func (h *handler) UpdateWebhook(c *gin.Context) {
	sub, ok := h.ownedSubscription(c)
	if !ok {
		return
	}

	var req dto.UpdateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		respondValidationError(c, apiErr)
		return
	}

	if req.URL != nil {
		sub.URL = *req.URL
	}
	if req.Events != nil {
		events, err := json.Marshal(req.Events)
		if err != nil {
			respondInternalError(c, err, "Failed to update webhook")
			return
		}
		sub.Events = datatypes.JSON(events)
	}
	if req.IsActive != nil {
		sub.IsActive = *req.IsActive
	}
	if req.Description != nil {
		sub.Description = req.Description
	}
	sub.UpdatedAt = h.clock.Now()

	if err := h.store.UpdateSubscription(c.Request.Context(), sub); err != nil {
		respondInternalError(c, err, "Failed to update webhook")
		return
	}
	c.JSON(http.StatusOK, dto.NewWebhookResponse(sub))
}

// DeleteWebhook handles DELETE /api/v1/webhooks/:id
func (h *handler) DeleteWebhook(c *gin.Context) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		respondForbidden(c, "webhook management requires an account token")
		return
	}

	deleted, err := h.store.DeleteSubscription(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "Failed to delete webhook")
		return
	}
	if !deleted {
		respondNotFound(c, "Webhook not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// TestWebhook handles POST /api/v1/webhooks/:id/test
func (h *handler) TestWebhook(c *gin.Context) {
	sub, ok := h.ownedSubscription(c)
	if !ok {
		return
	}

	delivery, err := h.dispatcher.SendTest(c.Request.Context(), sub)
	if err != nil {
		respondInternalError(c, err, "Failed to send test webhook")
		return
	}

	c.JSON(http.StatusOK, dto.TestWebhookResponse{
		Success:        delivery.IsSuccessful(),
		DeliveryID:     delivery.ID,
		ResponseStatus: delivery.ResponseStatus,
		ErrorMessage:   delivery.ErrorMessage,
	})
}

// ListDeliveries handles GET /api/v1/webhooks/:id/deliveries
func (h *handler) ListDeliveries(c *gin.Context) {
	sub, ok := h.ownedSubscription(c)
	if !ok {
		return
	}

	var query dto.DeliveryListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBadRequest(c, "Invalid query parameters", err.Error())
		return
	}
	if apiErr := query.Validate(); apiErr != nil {
		respondValidationError(c, apiErr)
		return
	}

	deliveries, err := h.store.ListDeliveries(c.Request.Context(), sub.ID, query.Limit, query.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list deliveries")
		return
	}

	responses := make([]dto.DeliveryResponse, 0, len(deliveries))
	for _, delivery := range deliveries {
		responses = append(responses, dto.NewDeliveryResponse(delivery))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateAlert handles POST /api/v1/alerts
func (h *handler) CreateAlert(c *gin.Context) {
	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body", err.Error())
		return
	}
	if apiErr := req.Validate(); apiErr != nil {
		respondValidationError(c, apiErr)
		return
	}

	// JWT callers are scoped to their own account; API-key callers
	// (trusted device services) must name the owner explicitly
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		if middleware.AuthType(c) != middleware.AuthTypeAPIKey || req.OwnerID == "" {
			respondForbidden(c, "alert recording requires an account token or an owner_id")
			return
		}
		ownerID = req.OwnerID
	}

	var details datatypes.JSON
	if req.Details != nil {
		raw, err := json.Marshal(req.Details)
		if err != nil {
			respondInternalError(c, err, "Failed to record alert")
			return
		}
		details = datatypes.JSON(raw)
	}

	alert := &schema.Alert{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		DeviceID:  req.DeviceID,
		AlertType: req.AlertType,
		Severity:  req.Severity,
		Title:     req.Title,
		Message:   req.Message,
		Details:   details,
		CreatedAt: h.clock.Now(),
	}

	if err := h.store.CreateAlert(c.Request.Context(), alert); err != nil {
		respondInternalError(c, err, "Failed to record alert")
		return
	}

	// Fire webhooks detached: recording the alert never waits on delivery
	payload := map[string]interface{}{
		"alert_id":   alert.ID,
		"alert_type": alert.AlertType,
		"severity":   alert.Severity,
		"title":      alert.Title,
		"message":    alert.Message,
	}
	if alert.DeviceID != nil {
		payload["device_id"] = *alert.DeviceID
	}
	if req.Details != nil {
		payload["details"] = req.Details
	}

	h.dispatcher.TriggerDetached(ownerID, domain.EventAlertCreated, payload)
	if event, mapped := domain.EventForAlertType(alert.AlertType); mapped {
		h.dispatcher.TriggerDetached(ownerID, event, payload)
	}

	c.JSON(http.StatusCreated, dto.AlertResponse{
		ID:        alert.ID,
		OwnerID:   alert.OwnerID,
		DeviceID:  alert.DeviceID,
		AlertType: alert.AlertType,
		Severity:  alert.Severity,
		Title:     alert.Title,
		CreatedAt: alert.CreatedAt,
	})
}

// ownedSubscription resolves the :id path parameter to a subscription
// owned by the authenticated account, writing the error response itself
// when resolution fails
func (h *handler) ownedSubscription(c *gin.Context) (*schema.WebhookSubscription, bool) {
	ownerID, ok := middleware.OwnerID(c)
	if !ok {
		respondForbidden(c, "webhook management requires an account token")
		return nil, false
	}

	sub, err := h.store.GetOwnedSubscription(c.Request.Context(), ownerID, c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "Failed to load webhook")
		return nil, false
	}
	if sub == nil {
		respondNotFound(c, "Webhook not found")
		return nil, false
	}
	return sub, true
}
