// Package envscan 实现环境变量信号通道
package envscan

import (
	"sync"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("signals/envscan")

// 确保实现了接口
var _ interfaces.SignalChannel = (*Scanner)(nil)

// ChannelName 通道名
const ChannelName = "envscan"

// hints 环境注入的加入提示
//
// 外部工具（启动器、联机助手）在拉起游戏前设置这些变量。
type hints struct {
	// Connect 目标主机身份（十进制）
	Connect string `env:"GT_CONNECT"`

	// LobbyToken 随目标附带的大厅令牌
	LobbyToken string `env:"GT_LOBBY_TOKEN"`
}

// Scanner 环境变量扫描器
//
// 周期性读取环境提示。相同取值只上抛一次，
// 外部工具更新变量后的新取值会再次上抛。
type Scanner struct {
	mu sync.Mutex

	cfg Config

	// environ 注入的环境键值（nil 时使用进程环境）
	environ map[string]string

	// lastScan 上次扫描时刻（节流基准）
	lastScan time.Time

	// lastValue 上次上抛的取值
	lastValue hints
}

// New 创建环境变量扫描器
func New(cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{cfg: cfg}, nil
}

// SetEnviron 注入环境键值（用于测试，须在并发使用前调用）
func (s *Scanner) SetEnviron(environ map[string]string) {
	s.environ = environ
}

// Name 返回通道名
func (s *Scanner) Name() string {
	return ChannelName
}

// Source 返回信号来源类别
func (s *Scanner) Source() types.SignalSource {
	return types.SignalSourceEnvironment
}

// Poll 读取环境提示，产出至多一条加入信号
func (s *Scanner) Poll(now time.Time) (types.JoinSignal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 节流：两次扫描之间至少间隔 Interval
	if now.Sub(s.lastScan) < s.cfg.Interval {
		return types.JoinSignal{}, false
	}
	s.lastScan = now

	var h hints
	opts := env.Options{}
	if s.environ != nil {
		opts.Environment = s.environ
	}
	if err := env.ParseWithOptions(&h, opts); err != nil {
		logger.Debug("解析环境提示失败", "error", err)
		return types.JoinSignal{}, false
	}

	// 无目标或与上次上抛取值相同
	if h.Connect == "" || h == s.lastValue {
		return types.JoinSignal{}, false
	}

	target, err := types.ParseIdentity(h.Connect)
	if err != nil {
		logger.Debug("环境提示不是合法身份", "value", h.Connect)
		return types.JoinSignal{}, false
	}

	s.lastValue = h
	logger.Info("环境变量携带加入目标", "target", target)

	return types.JoinSignal{
		Target: target,
		Source: types.SignalSourceEnvironment,
		Lobby:  types.LobbyToken(h.LobbyToken),
		At:     now,
	}, true
}
