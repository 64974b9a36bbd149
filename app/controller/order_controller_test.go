package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commission-manager/gateway"
	"commission-manager/models"
	"commission-manager/service"
)

func newTestController() (*OrderController, *service.OrderService) {
	orders := service.NewOrderService(gateway.Noop{})
	return NewOrderController(orders), orders
}

func checkoutBody() *bytes.Buffer {
	body, _ := json.Marshal(models.CheckoutRequest{
		ClientName:  "Mint",
		ContactType: models.ContactDiscord,
		Items: []models.LineItem{
			{Name: "Chibi", SubType: "Fullbody", BasePrice: 200},
		},
		Multiplier: 1,
	})
	return bytes.NewBuffer(body)
}

func mustCheckout(t *testing.T, c *OrderController) models.Order {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/orders", checkoutBody())
	rec := httptest.NewRecorder()
	c.Checkout(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	return order
}

func TestCheckoutHandler(t *testing.T) {
	t.Run("creates order", func(t *testing.T) {
		c, orders := newTestController()
		order := mustCheckout(t, c)

		assert.NotEmpty(t, order.ID)
		assert.Equal(t, 200.0, order.TotalPrice)
		assert.Equal(t, models.StatusAwaitingDeposit, order.Status)
		assert.Len(t, orders.Queue(), 1)
	})

	t.Run("invalid json", func(t *testing.T) {
		c, _ := newTestController()
		req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		c.Checkout(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation failure", func(t *testing.T) {
		c, orders := newTestController()
		body, _ := json.Marshal(models.CheckoutRequest{ClientName: "", Multiplier: 1})
		req := httptest.NewRequest(http.MethodPost, "/api/orders", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		c.Checkout(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, orders.Queue())
	})
}

func TestListHandlers(t *testing.T) {
	c, _ := newTestController()
	order := mustCheckout(t, c)

	rec := httptest.NewRecorder()
	c.ListQueue(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var queueResp map[string][]models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queueResp))
	require.Len(t, queueResp["queue"], 1)
	assert.Equal(t, order.ID, queueResp["queue"][0].ID)

	rec = httptest.NewRecorder()
	c.ListArchive(rec, httptest.NewRequest(http.MethodGet, "/api/archive", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var archiveResp map[string][]models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archiveResp))
	assert.Empty(t, archiveResp["archive"])
}

func TestUpdateStatusHandler(t *testing.T) {
	t.Run("updates status", func(t *testing.T) {
		c, _ := newTestController()
		order := mustCheckout(t, c)

		body, _ := json.Marshal(models.UpdateStatusRequest{Status: models.StatusLineart})
		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+order.ID+"/status", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		c.UpdateStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Updated bool          `json:"updated"`
			Order   *models.Order `json:"order"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Updated)
		assert.Equal(t, models.StatusLineart, resp.Order.Status)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		c, _ := newTestController()
		order := mustCheckout(t, c)

		req := httptest.NewRequest(http.MethodPut, "/api/orders/"+order.ID+"/status",
			strings.NewReader(`{"status": "shipped"}`))
		rec := httptest.NewRecorder()
		c.UpdateStatus(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("absent order is a silent no-op", func(t *testing.T) {
		c, _ := newTestController()

		body, _ := json.Marshal(models.UpdateStatusRequest{Status: models.StatusDraft})
		req := httptest.NewRequest(http.MethodPut, "/api/orders/missing/status", bytes.NewBuffer(body))
		rec := httptest.NewRecorder()
		c.UpdateStatus(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Updated bool `json:"updated"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Updated)
	})

	t.Run("missing id", func(t *testing.T) {
		c, _ := newTestController()
		req := httptest.NewRequest(http.MethodPut, "/api/orders//status", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		c.UpdateStatus(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateDeadlineHandler(t *testing.T) {
	c, _ := newTestController()
	order := mustCheckout(t, c)

	body, _ := json.Marshal(models.UpdateDeadlineRequest{Deadline: "15/9/2026"})
	req := httptest.NewRequest(http.MethodPut, "/api/orders/"+order.ID+"/deadline", bytes.NewBuffer(body))
	rec := httptest.NewRecorder()
	c.UpdateDeadline(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Updated bool          `json:"updated"`
		Order   *models.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Updated)
	assert.Equal(t, "15/9/2026", resp.Order.Deadline)
}

func TestArchiveOrderHandler(t *testing.T) {
	t.Run("unfinished order rejected", func(t *testing.T) {
		c, _ := newTestController()
		order := mustCheckout(t, c)

		req := httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID+"/archive", nil)
		rec := httptest.NewRecorder()
		c.ArchiveOrder(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("finished order archived", func(t *testing.T) {
		c, orders := newTestController()
		order := mustCheckout(t, c)
		_, ok := orders.SetStatus(order.ID, models.StatusFinished)
		require.True(t, ok)

		req := httptest.NewRequest(http.MethodPost, "/api/orders/"+order.ID+"/archive", nil)
		rec := httptest.NewRecorder()
		c.ArchiveOrder(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, orders.Queue())
		assert.Len(t, orders.Archive(), 1)
	})

	t.Run("unknown order", func(t *testing.T) {
		c, _ := newTestController()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/missing/archive", nil)
		rec := httptest.NewRecorder()
		c.ArchiveOrder(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteHandlers(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		c, orders := newTestController()
		order := mustCheckout(t, c)

		req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+order.ID, nil)
		rec := httptest.NewRecorder()
		c.DeleteFromQueue(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Len(t, orders.Queue(), 1)
	})

	t.Run("deletes with confirmation", func(t *testing.T) {
		c, orders := newTestController()
		order := mustCheckout(t, c)

		req := httptest.NewRequest(http.MethodDelete, "/api/orders/"+order.ID+"?confirm=true", nil)
		rec := httptest.NewRecorder()
		c.DeleteFromQueue(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp["deleted"])
		assert.Empty(t, orders.Queue())
	})

	t.Run("absent order reports deleted false", func(t *testing.T) {
		c, _ := newTestController()

		req := httptest.NewRequest(http.MethodDelete, "/api/archive/missing?confirm=true", nil)
		rec := httptest.NewRecorder()
		c.DeleteFromArchive(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]bool
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp["deleted"])
	})
}

func TestReloadHandler(t *testing.T) {
	c, _ := newTestController()
	mustCheckout(t, c)

	req := httptest.NewRequest(http.MethodPost, "/api/reload", nil)
	rec := httptest.NewRecorder()
	c.Reload(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Synced  bool           `json:"synced"`
		Queue   []models.Order `json:"queue"`
		Archive []models.Order `json:"archive"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Synced)
	// The noop gateway snapshot carries neither collection, so local state stays.
	assert.Len(t, resp.Queue, 1)
}
