package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"

	kafkax "github.com/ariefcatur/go-storefront.git/internal/kafka"
	"github.com/ariefcatur/go-storefront.git/internal/store"
)

// Publisher is what the handlers need from the kafka producer.
type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// RateSource supplies the display-only secondary-currency rate.
type RateSource interface {
	Rate(ctx context.Context) (decimal.Decimal, bool)
}

type OrdersHandler struct {
	Service  *store.Service
	Rates    RateSource
	Producer Publisher
	Name     string // producer name stamped on envelopes
}

type OrderReq struct {
	Details []store.DetailInput `json:"details"`
}

type OrderResp struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"created_at"`
	Details   []store.OrderDetail `json:"details"`
	Total     decimal.Decimal     `json:"total"`
	TotalUSD  *decimal.Decimal    `json:"total_usd"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Put("/orders/{id}", h.updateOrder)
	r.Delete("/orders/{id}", h.deleteOrder)
	r.Delete("/orders/{id}/details/{detailID}", h.deleteDetail)
}

// respOrder prices one order with an already-fetched rate, so a listing
// consults the rate source once, not once per order.
func respOrder(o *store.Order, rate decimal.Decimal, haveRate bool) OrderResp {
	total := store.Total(o.Details)
	resp := OrderResp{
		ID:        o.ID,
		CreatedAt: o.CreatedAt,
		Details:   o.Details,
		Total:     total,
	}
	if haveRate {
		usd := store.TotalInSecondary(total, rate)
		resp.TotalUSD = &usd
	}
	return resp
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.CreateOrder(ctx, req.Details)
	if err != nil {
		writeError(w, err)
		return
	}

	h.publish(store.EventOrderCreated, order.ID, store.OrderEventPayload{
		OrderID: order.ID,
		Details: order.Details,
		Total:   store.Total(order.Details),
	}, r.Header.Get("X-Request-Id"))

	rate, ok := h.Rates.Rate(ctx)
	writeJSON(w, http.StatusCreated, respOrder(order, rate, ok))
}

func (h *OrdersHandler) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.UpdateOrder(ctx, chi.URLParam(r, "id"), req.Details)
	if err != nil {
		writeError(w, err)
		return
	}

	h.publish(store.EventOrderUpdated, order.ID, store.OrderEventPayload{
		OrderID: order.ID,
		Details: order.Details,
		Total:   store.Total(order.Details),
	}, r.Header.Get("X-Request-Id"))

	rate, ok := h.Rates.Rate(ctx)
	writeJSON(w, http.StatusOK, respOrder(order, rate, ok))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Service.GetOrder(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	rate, ok := h.Rates.Rate(ctx)
	writeJSON(w, http.StatusOK, respOrder(order, rate, ok))
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ordersList, err := h.Service.ListOrders(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	rate, ok := h.Rates.Rate(ctx)
	out := make([]OrderResp, 0, len(ordersList))
	for i := range ordersList {
		out = append(out, respOrder(&ordersList[i], rate, ok))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "id")
	if err := h.Service.DeleteOrder(ctx, orderID); err != nil {
		writeError(w, err)
		return
	}

	h.publish(store.EventOrderDeleted, orderID, store.OrderEventPayload{OrderID: orderID},
		r.Header.Get("X-Request-Id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) deleteDetail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orderID := chi.URLParam(r, "id")
	detail, err := h.Service.DeleteDetail(ctx, chi.URLParam(r, "detailID"))
	if err != nil {
		writeError(w, err)
		return
	}

	h.publish(store.EventOrderDetailDeleted, orderID, store.DetailDeletedPayload{
		OrderID:   detail.OrderID,
		DetailID:  detail.ID,
		ProductID: detail.ProductID,
		Quantity:  detail.Quantity,
	}, r.Header.Get("X-Request-Id"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrdersHandler) publish(eventType, correlationID string, payload any, traceID string) {
	ev := store.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Name,
		TraceID:       traceID,
		CorrelationID: correlationID,
		Payload:       kafkax.MustMarshal(payload),
	}
	h.Producer.Publish(store.PartitionKey(correlationID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
