package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 20 * time.Second
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	maxReadBytes = 1024
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// CreateQuickOrderRequest represents a quick product order
type CreateQuickOrderRequest struct {
	CustomerName string `json:"customer_name" binding:"required"`
	ProductName  string `json:"product_name" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
}

type feedMessage struct {
	Type string              `json:"type"`
	Data []models.QuickOrder `json:"data"`
}

func quickOrderService() *services.QuickOrderService {
	return services.NewQuickOrderService(config.GetDB(), services.GetQuickOrderFeed())
}

// ListQuickOrders handles GET /api/v1/quick-orders - newest first
func ListQuickOrders(c *gin.Context) {
	orders, err := quickOrderService().List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve quick orders")
		return
	}

	respondSuccess(c, http.StatusOK, orders)
}

// CreateQuickOrder handles POST /api/v1/quick-orders
func CreateQuickOrder(c *gin.Context) {
	var req CreateQuickOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	order, err := quickOrderService().Create(c.Request.Context(), services.CreateQuickOrderInput{
		CustomerName: req.CustomerName,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
	})
	if err != nil {
		respondServiceError(c, err, "Failed to create quick order")
		return
	}

	respondSuccess(c, http.StatusCreated, order)
}

// StreamQuickOrders handles GET /api/v1/quick-orders/stream. The socket
// receives the full collection on connect and again after every change.
func StreamQuickOrders(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Upgrade:", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	snapshots, err := quickOrderService().Subscribe(ctx)
	if err != nil {
		log.Printf("quick order subscribe failed: %v", err)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "feed unavailable"),
			time.Now().Add(writeWait))
		return
	}

	// the read loop only services pongs and notices the client leaving
	go func() {
		defer cancel()
		conn.SetReadLimit(maxReadBytes)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-snapshots:
			if !ok {
				return
			}
			body, err := json.Marshal(feedMessage{Type: "snapshot", Data: snapshot})
			if err != nil {
				log.Printf("quick order encode failed: %v", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
				log.Println("WS write error:", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
