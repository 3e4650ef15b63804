// Package relay 实现 wsrelay 客户端对接的中继服务器
package relay

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// 丢帧原因标签
const (
	// DropUnknownDest 目标身份不在线
	DropUnknownDest = "unknown_dest"
	// DropSlowConsumer 目标发送缓冲写满
	DropSlowConsumer = "slow_consumer"
	// DropMalformed 帧不符合线缆格式
	DropMalformed = "malformed"
)

// Metrics 中继的 Prometheus 指标集
//
// 指标注册进调用方给定的注册表，零值指针可用：
// 所有观测方法对 nil 接收者都是安全的空操作。
type Metrics struct {
	clients       prometheus.Gauge
	lobbies       prometheus.Gauge
	connects      prometheus.Counter
	evictions     prometheus.Counter
	framesRelayed prometheus.Counter
	bytesRelayed  prometheus.Counter
	framesDropped *prometheus.CounterVec
	controlFrames *prometheus.CounterVec
}

// NewMetrics 创建指标集并注册到 reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relay_clients",
			Help: "当前在线客户端数",
		}),
		lobbies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "relay_lobbies",
			Help: "当前存活大厅数",
		}),
		connects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_connects_total",
			Help: "完成注册的连接累计数",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_client_evictions_total",
			Help: "因静默过期或容量被逐出的客户端累计数",
		}),
		framesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_frames_relayed_total",
			Help: "成功转发的数据帧累计数",
		}),
		bytesRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "relay_bytes_relayed_total",
			Help: "成功转发的数据帧累计字节数",
		}),
		framesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_frames_dropped_total",
			Help: "按原因统计的丢帧累计数",
		}, []string{"reason"}),
		controlFrames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "relay_control_frames_total",
			Help: "按操作码统计的入站控制帧累计数",
		}, []string{"op"}),
	}
	reg.MustRegister(
		m.clients, m.lobbies,
		m.connects, m.evictions,
		m.framesRelayed, m.bytesRelayed,
		m.framesDropped, m.controlFrames,
	)
	return m
}

// MetricsHandler 返回暴露 reg 的 HTTP 处理器
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// ObserveConnect 记录一次完成注册的连接
func (m *Metrics) ObserveConnect() {
	if m == nil {
		return
	}
	m.connects.Inc()
}

// ObserveEviction 记录一次客户端逐出
func (m *Metrics) ObserveEviction() {
	if m == nil {
		return
	}
	m.evictions.Inc()
}

// ObserveRelayed 记录一帧成功转发
func (m *Metrics) ObserveRelayed(bytes int) {
	if m == nil {
		return
	}
	m.framesRelayed.Inc()
	m.bytesRelayed.Add(float64(bytes))
}

// ObserveDropped 记录一次丢帧
func (m *Metrics) ObserveDropped(reason string) {
	if m == nil {
		return
	}
	m.framesDropped.WithLabelValues(reason).Inc()
}

// ObserveControl 记录一帧入站控制帧
func (m *Metrics) ObserveControl(op string) {
	if m == nil {
		return
	}
	m.controlFrames.WithLabelValues(op).Inc()
}

// SetClients 更新在线客户端数
func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.clients.Set(float64(n))
}

// SetLobbies 更新存活大厅数
func (m *Metrics) SetLobbies(n int) {
	if m == nil {
		return
	}
	m.lobbies.Set(float64(n))
}
