package handler

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"resto_manager/config"
	"resto_manager/database"
	"resto_manager/model"

	"github.com/gofiber/contrib/websocket"
	"github.com/redis/go-redis/v9"
)

const tableChannel = "tables:status"

var (
	redisClient = redis.NewClient(&redis.Options{
		Addr: config.ConfigDefault("REDIS_ADDR", "localhost:6379"),
	})

	wsClients = make(map[*websocket.Conn]bool)
	wsMu      sync.Mutex
)

// TableWebsocket streams table occupancy to waiter dashboards. Every client
// gets the current snapshot on connect, then updates fanned out from redis.
func TableWebsocket(c *websocket.Conn) {
	defer func() {
		wsMu.Lock()
		delete(wsClients, c)
		wsMu.Unlock()
		c.Close()
	}()

	wsMu.Lock()
	wsClients[c] = true
	wsMu.Unlock()

	var tables []model.Table
	if err := database.DB.Order("table_number asc").Find(&tables).Error; err == nil {
		c.WriteJSON(tables)
	}

	pubsub := redisClient.Subscribe(context.Background(), tableChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		payload := []byte(msg.Payload)

		wsMu.Lock()
		for conn := range wsClients {
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				conn.Close()
				delete(wsClients, conn)
			}
		}
		wsMu.Unlock()
	}
}

// BroadcastTables publishes the current table list after occupancy changes
func BroadcastTables() {
	var tables []model.Table
	if err := database.DB.Order("table_number asc").Find(&tables).Error; err != nil {
		log.Printf("broadcast tables: %v", err)
		return
	}
	payload, err := json.Marshal(tables)
	if err != nil {
		log.Printf("broadcast tables: %v", err)
		return
	}
	if err := redisClient.Publish(context.Background(), tableChannel, payload).Err(); err != nil {
		log.Printf("broadcast tables: %v", err)
	}
}
