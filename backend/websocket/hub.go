// backend/websocket/hub.go
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnatale52/gestion-informes/backend/middleware"
)

// plazoEscritura acota cuánto puede bloquear la escritura a un cliente lento
// antes de darlo por perdido.
const plazoEscritura = 10 * time.Second

// Client es una conexión websocket de un miembro de un equipo.
type Client struct {
	Conn     *websocket.Conn
	UserID   uint
	Nombre   string
	EquipoID uint

	mu sync.Mutex // serializa las escrituras sobre Conn
}

// enviar escribe un mensaje de texto con plazo; las escrituras concurrentes
// sobre la misma conexión se serializan con el mutex del cliente.
func (cl *Client) enviar(mensaje []byte) error {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.Conn.SetWriteDeadline(time.Now().Add(plazoEscritura))
	return cl.Conn.WriteMessage(websocket.TextMessage, mensaje)
}

// Hub mantiene el conjunto de clientes conectados y reparte eventos de
// informes a los miembros del equipo correspondiente.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Permite todos los orígenes por ahora. En producción, restringir.
		return true
	},
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Cliente conectado: %s (equipo %d)", client.Nombre, client.EquipoID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Conn.Close()
			}
			h.mu.Unlock()
			log.Printf("Cliente desconectado: %s", client.Nombre)
		}
	}
}

// NotificarEquipo envía un evento {type, data} a todos los clientes
// conectados que pertenezcan al equipo indicado.
func (h *Hub) NotificarEquipo(equipoID uint, tipo string, data interface{}) {
	mensaje, err := json.Marshal(map[string]interface{}{
		"type": tipo,
		"data": data,
	})
	if err != nil {
		log.Printf("Error al serializar el evento %s: %v", tipo, err)
		return
	}

	// Se toma una instantánea de los destinatarios bajo el candado y se
	// escribe fuera de él: un cliente lento no debe retener el hub ni a los
	// manejadores HTTP que notifican.
	h.mu.Lock()
	destinatarios := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		if client.EquipoID == equipoID {
			destinatarios = append(destinatarios, client)
		}
	}
	h.mu.Unlock()

	for _, client := range destinatarios {
		if err := client.enviar(mensaje); err != nil {
			log.Printf("Error de escritura en websocket: %s", err)
		}
	}
}

// ServeWs actualiza la conexión HTTP a websocket y registra al cliente en el
// hub. Debe montarse detrás de RequireAuth.
func ServeWs(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		usuario := middleware.UsuarioActual(c)
		if usuario.ID == 0 {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Println(err)
			return
		}

		client := &Client{
			Conn:     conn,
			UserID:   usuario.ID,
			Nombre:   usuario.Nombre,
			EquipoID: usuario.EquipoID,
		}
		hub.register <- client

		// Bucle de lectura: solo sirve para detectar el cierre de la conexión.
		go func() {
			defer func() { hub.unregister <- client }()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}
