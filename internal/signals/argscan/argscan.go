// Package argscan 实现启动参数信号通道
package argscan

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("signals/argscan")

// 确保实现了接口
var _ interfaces.SignalChannel = (*Scanner)(nil)

// ChannelName 通道名
const ChannelName = "argscan"

// URI 风格前缀
const (
	prefixJoinLobby = "steam://joinlobby/"
	prefixConnect   = "steam://connect/"
	markerLobbyArg  = "+connect_lobby"
)

// 键值对形式可识别的键
var connectKeys = map[string]bool{
	"connect":       true,
	"connect_lobby": true,
	"lobby":         true,
}

// Scanner 启动参数扫描器
//
// 平台经由加入邀请重启游戏进程时，会把加入目标注入启动参数。
// 扫描器周期性解析参数序列识别这类目标。
// 同一目标只上抛一次：扫描结果与上次上抛相同时不产出信号。
type Scanner struct {
	mu sync.Mutex

	cfg Config

	// args 注入的参数序列（nil 时使用 os.Args[1:]）
	args []string

	// lastScan 上次扫描时刻（节流基准）
	lastScan time.Time

	// lastEmitted 上次上抛的目标
	lastEmitted types.Identity
}

// New 创建启动参数扫描器
func New(cfg Config) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{cfg: cfg}, nil
}

// SetArgs 注入参数序列（用于测试，须在并发使用前调用）
func (s *Scanner) SetArgs(args []string) {
	s.args = args
}

// Name 返回通道名
func (s *Scanner) Name() string {
	return ChannelName
}

// Source 返回信号来源类别
func (s *Scanner) Source() types.SignalSource {
	return types.SignalSourceLaunchArgs
}

// Poll 扫描启动参数，产出至多一条加入信号
func (s *Scanner) Poll(now time.Time) (types.JoinSignal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 节流：两次扫描之间至少间隔 Interval
	if now.Sub(s.lastScan) < s.cfg.Interval {
		return types.JoinSignal{}, false
	}
	s.lastScan = now

	args := s.args
	if args == nil {
		args = os.Args[1:]
	}

	target := s.parse(args)
	if target.IsEmpty() || target == s.lastEmitted {
		return types.JoinSignal{}, false
	}

	s.lastEmitted = target
	logger.Info("启动参数携带加入目标", "target", target)

	return types.JoinSignal{
		Target: target,
		Source: types.SignalSourceLaunchArgs,
		At:     now,
	}, true
}

// parse 按固定模式集解析参数序列，返回首个识别出的目标
//
// 对每个参数依次尝试：
//  1. URI 前缀（steam://joinlobby/、steam://connect/）
//  2. +connect_lobby 标记，取下一个参数作为值
//  3. 键值对（connect= / connect_lobby= / lobby=）
//  4. 裸数字，量级不低于 MinPlatformID 才视为平台身份
func (s *Scanner) parse(args []string) types.Identity {
	for i, arg := range args {
		if target := s.parseURI(arg); !target.IsEmpty() {
			return target
		}
		if arg == markerLobbyArg && i+1 < len(args) {
			if target, err := types.ParseIdentity(args[i+1]); err == nil {
				return target
			}
			continue
		}
		if target := s.parseKeyValue(arg); !target.IsEmpty() {
			return target
		}
		if target := s.parseBare(arg); !target.IsEmpty() {
			return target
		}
	}
	return types.EmptyIdentity
}

// parseURI 解析 URI 风格参数
//
// joinlobby URI 形如 appid/大厅ID/主机账号，目标在最后一段；
// 应用 ID 等小数字段不够量级，被下限过滤掉。
func (s *Scanner) parseURI(arg string) types.Identity {
	var rest string
	switch {
	case strings.HasPrefix(arg, prefixJoinLobby):
		rest = strings.TrimPrefix(arg, prefixJoinLobby)
	case strings.HasPrefix(arg, prefixConnect):
		rest = strings.TrimPrefix(arg, prefixConnect)
	default:
		return types.EmptyIdentity
	}

	target := types.EmptyIdentity
	for _, seg := range strings.Split(rest, "/") {
		id, err := types.ParseIdentity(seg)
		if err != nil || uint64(id) < s.cfg.MinPlatformID {
			continue
		}
		target = id
	}
	return target
}

// parseKeyValue 解析键值对参数
//
// 键值对是显式意图，值只需是合法身份，不做量级过滤。
func (s *Scanner) parseKeyValue(arg string) types.Identity {
	key, value, found := strings.Cut(arg, "=")
	if !found {
		return types.EmptyIdentity
	}
	key = strings.TrimLeft(key, "-+/")
	if !connectKeys[strings.ToLower(key)] {
		return types.EmptyIdentity
	}
	id, err := types.ParseIdentity(value)
	if err != nil {
		return types.EmptyIdentity
	}
	return id
}

// parseBare 解析裸数字参数
func (s *Scanner) parseBare(arg string) types.Identity {
	id, err := types.ParseIdentity(arg)
	if err != nil || uint64(id) < s.cfg.MinPlatformID {
		return types.EmptyIdentity
	}
	return id
}
