package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/campus-dining/dining-station/models"
	"github.com/campus-dining/dining-station/utils"
)

// Event types
const (
	EventOrderUpdate = "order_update"
	EventStaffNotif  = "staff_notification"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	role         string
	restaurantID uint // 0 untuk admin (melihat semua restaurant)
}

// Hub menampung koneksi dashboard staff/owner/admin. Lifecycle engine
// menyiarkan setiap perubahan status order ke sini.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]client),
}

// RegisterClient -> menambahkan connection ke set dengan role & restaurant
func RegisterClient(conn *websocket.Conn, role string, restaurantID uint) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = client{role: role, restaurantID: restaurantID}
}

// UnregisterClient -> melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate -> menyiarkan perubahan order ke dashboard restaurant terkait
func BroadcastOrderUpdate(order models.Order) {
	broadcast(order.RestaurantID, Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastStaffNotification -> notifikasi teks untuk staff satu restaurant
func BroadcastStaffNotification(restaurantID uint, message string) {
	broadcast(restaurantID, Message{
		Event: EventStaffNotif,
		Data:  message,
	})
}

// broadcast mengirim pesan ke semua client restaurant tsb plus admin.
func broadcast(restaurantID uint, msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling event: %v", err)
		return
	}

	for conn, cl := range hub.clients {
		if cl.restaurantID != 0 && cl.restaurantID != restaurantID {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending event to %s client: %v", cl.role, err)
			continue
		}
	}
}
