package telemetry

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	socketBufferSize  = 1024
	messageBufferSize = 64
	writeWait         = 2 * time.Second
)

var upgrader = &websocket.Upgrader{ReadBufferSize: socketBufferSize, WriteBufferSize: socketBufferSize}

// client 一个WebSocket订阅者
type client struct {
	socket *websocket.Conn
	send   chan []byte
	room   *Room
}

// read 读取并丢弃客户端消息，连接断开时返回
func (c *client) read() {
	defer c.socket.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			return
		}
	}
}

// write 把房间转发的消息写给客户端
func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		c.socket.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Room WebSocket遥测房间，同时也是一个输出端
// 功能：把每条遥测信封广播给所有已连接的客户端
// 说明：客户端发送缓冲满时丢弃该客户端的这条消息，不阻塞分发
type Room struct {
	forward chan []byte
	join    chan *client
	leave   chan *client
	clients map[*client]bool
	members chan int // 查询当前客户端数
	quit    chan struct{}
	once    sync.Once
}

// NewRoom 创建并启动房间
func NewRoom() *Room {
	r := &Room{
		forward: make(chan []byte, messageBufferSize),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
		members: make(chan int),
		quit:    make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Room) run() {
	for {
		select {
		case c := <-r.join:
			r.clients[c] = true
			log.Infof("websocket client joined (%d)", len(r.clients))
		case c := <-r.leave:
			if r.clients[c] {
				delete(r.clients, c)
				close(c.send)
				log.Infof("websocket client left (%d)", len(r.clients))
			}
		case msg := <-r.forward:
			for c := range r.clients {
				select {
				case c.send <- msg:
				default:
					log.Debug("websocket client too slow, message dropped")
				}
			}
		case r.members <- len(r.clients):
		case <-r.quit:
			for c := range r.clients {
				delete(r.clients, c)
				close(c.send)
			}
			return
		}
	}
}

// Clients 当前客户端数
func (r *Room) Clients() int {
	select {
	case n := <-r.members:
		return n
	case <-r.quit:
		return 0
	}
}

func (r *Room) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Warnf("websocket upgrade: %v", err)
		return
	}
	c := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
		room:   r,
	}
	select {
	case r.join <- c:
	case <-r.quit:
		socket.Close()
		return
	}
	defer func() {
		select {
		case r.leave <- c:
		case <-r.quit:
		}
	}()
	go c.write()
	c.read()
}

func (r *Room) Name() string { return "websocket" }

// Write 广播信封，房间忙时丢弃
func (r *Room) Write(_ Record, envelope []byte) error {
	select {
	case r.forward <- envelope:
	case <-r.quit:
	default:
		log.Debug("websocket room busy, message dropped")
	}
	return nil
}

// Close 关闭房间与所有客户端
func (r *Room) Close() error {
	r.once.Do(func() { close(r.quit) })
	return nil
}
