// Package ws pushes full collection snapshots to connected clients, the
// live-update surface the console UI subscribes to.
package ws

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"ottica-backend/internal/models"
	"ottica-backend/internal/repository"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// event is one push: the collection name and its full snapshot
type event struct {
	Collection string      `json:"collection"`
	Data       interface{} `json:"data"`
}

// client wraps a connection with a write mutex: gorilla/websocket supports
// at most one concurrent writer per connection, and pushes arrive both from
// the store's notify goroutines and from the initial-state push.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(ev event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(ev)
}

type Hub struct {
	clients    map[*client]bool
	clientsMux sync.Mutex
	views      *repository.Views
}

// NewHub wires the hub to every collection view: each refresh is
// broadcast to all connected clients.
func NewHub(views *repository.Views) *Hub {
	h := &Hub{
		clients: make(map[*client]bool),
		views:   views,
	}

	views.Sales.OnChange(func(items []models.Sale) {
		h.broadcast(models.CollectionVendite, items)
	})
	views.Repairs.OnChange(func(items []models.Repair) {
		h.broadcast(models.CollectionRiparazioni, items)
	})
	views.Sellers.OnChange(func(items []models.Seller) {
		h.broadcast(models.CollectionVenditori, items)
	})
	views.Emails.OnChange(func(items []models.AdminEmail) {
		h.broadcast(models.CollectionEmails, items)
	})
	views.Monthly.OnChange(func(items []models.MonthlySheet) {
		h.broadcast(models.CollectionDatiMensili, items)
	})
	views.Lac.OnChange(func(items []models.LacClient) {
		h.broadcast(models.CollectionLac, items)
	})

	return h
}

// HandleWS upgrades the connection and sends the current snapshot of every
// collection before streaming changes.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[WS] upgrade failed: %v", err)
		return
	}

	c := &client{conn: conn}
	h.clientsMux.Lock()
	h.clients[c] = true
	h.clientsMux.Unlock()

	// Initial state push
	h.sendTo(c, event{Collection: models.CollectionVendite, Data: h.views.Sales.Snapshot()})
	h.sendTo(c, event{Collection: models.CollectionRiparazioni, Data: h.views.Repairs.Snapshot()})
	h.sendTo(c, event{Collection: models.CollectionVenditori, Data: h.views.Sellers.Snapshot()})
	h.sendTo(c, event{Collection: models.CollectionEmails, Data: h.views.Emails.Snapshot()})
	h.sendTo(c, event{Collection: models.CollectionDatiMensili, Data: h.views.Monthly.Snapshot()})
	h.sendTo(c, event{Collection: models.CollectionLac, Data: h.views.Lac.Snapshot()})

	// Read loop only detects disconnect; clients never send payloads
	go func() {
		defer h.drop(c)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) broadcast(collection string, data interface{}) {
	ev := event{Collection: collection, Data: data}

	h.clientsMux.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMux.Unlock()

	for _, c := range clients {
		h.sendTo(c, ev)
	}
}

func (h *Hub) sendTo(c *client, ev event) {
	if err := c.write(ev); err != nil {
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	h.clientsMux.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		c.conn.Close()
	}
	h.clientsMux.Unlock()
}
