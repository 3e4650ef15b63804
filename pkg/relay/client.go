// Package relay 实现 wsrelay 客户端对接的中继服务器
package relay

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gungeon-together/go-gtnet/pkg/provider/wsrelay"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// client 一条已注册连接的服务器侧状态
//
// 读取在 serveWS 的请求协程里进行，写出全部经 send 缓冲由
// writePump 串行执行，二者通过 done 同步关闭。
type client struct {
	id   types.Identity
	name string
	conn *websocket.Conn

	send chan outbound
	done chan struct{}

	mu       sync.Mutex
	presence map[string]string

	// departed 标记主动断开，区分表逐出与正常下线
	departed  atomic.Bool
	closeOnce sync.Once
}

// outbound 待写出的一帧
type outbound struct {
	msgType int
	data    []byte
}

func newClient(id types.Identity, name string, conn *websocket.Conn, sendBuffer int) *client {
	return &client{
		id:       id,
		name:     name,
		conn:     conn,
		send:     make(chan outbound, sendBuffer),
		done:     make(chan struct{}),
		presence: make(map[string]string),
	}
}

// close 断开连接并终止写泵，幂等
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// enqueue 把一帧放入发送缓冲，缓冲写满返回 false
func (c *client) enqueue(msgType int, data []byte) bool {
	select {
	case c.send <- outbound{msgType: msgType, data: data}:
		return true
	default:
		return false
	}
}

// enqueueControl 编码并入队一帧控制帧
func (c *client) enqueueControl(ctrl wsrelay.Control) bool {
	data, err := wsrelay.EncodeControl(ctrl)
	if err != nil {
		return false
	}
	return c.enqueue(websocket.TextMessage, data)
}

// setPresence 写入一个富状态键值
func (c *client) setPresence(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presence[key] = value
}

// clearPresence 清空富状态
func (c *client) clearPresence() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.presence = make(map[string]string)
}

// presenceSnapshot 返回富状态的副本
func (c *client) presenceSnapshot() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.presence) == 0 {
		return nil
	}
	out := make(map[string]string, len(c.presence))
	for k, v := range c.presence {
		out[k] = v
	}
	return out
}

// writePump 串行写出下行帧并按期发 ping，退出时关闭连接
func (c *client) writePump(cfg Config) {
	ticker := time.NewTicker(cfg.pingPeriod())
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return
		case out := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(out.msgType, out.data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
