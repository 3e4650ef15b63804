// Package wsrelay 提供经 WebSocket 中继的平台实现
package wsrelay

import (
	"encoding/binary"
	"encoding/json"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════
// 数据帧
// ════════════════════════════════════════════════════════════════════════

// FramePrefixSize 数据帧身份前缀长度（字节）
const FramePrefixSize = 8

// EncodeFrame 把身份与报文拼成一个二进制数据帧
//
// 客户端发往服务器时 id 为目标身份，服务器发往客户端时为来源身份。
// 报文内容对中继不透明，原样转发。
func EncodeFrame(id types.Identity, payload []byte) []byte {
	frame := make([]byte, FramePrefixSize+len(payload))
	binary.LittleEndian.PutUint64(frame, uint64(id))
	copy(frame[FramePrefixSize:], payload)
	return frame
}

// DecodeFrame 拆出数据帧的身份前缀与报文
//
// 返回的报文切片与 frame 共享底层数组，调用方如需持有应自行复制。
func DecodeFrame(frame []byte) (types.Identity, []byte, error) {
	if len(frame) < FramePrefixSize {
		return types.EmptyIdentity, nil, ErrShortFrame
	}
	id := types.Identity(binary.LittleEndian.Uint64(frame))
	return id, frame[FramePrefixSize:], nil
}

// ════════════════════════════════════════════════════════════════════════
// 控制帧
// ════════════════════════════════════════════════════════════════════════

// 控制帧操作码
const (
	// OpHello 客户端注册，携带 ID 与 Name，必须是连接上的第一帧
	OpHello = "hello"
	// OpWelcome 服务器对注册的确认，回显 ID
	OpWelcome = "welcome"
	// OpPresenceSet 设置一个富状态键值
	OpPresenceSet = "presence_set"
	// OpPresenceClear 清空全部富状态
	OpPresenceClear = "presence_clear"
	// OpLobbyCreate 创建大厅，令牌由客户端生成并随帧上报
	OpLobbyCreate = "lobby_create"
	// OpLobbyJoin 按令牌加入大厅
	OpLobbyJoin = "lobby_join"
	// OpLobbyLeave 按令牌离开大厅
	OpLobbyLeave = "lobby_leave"
	// OpRosterPull 客户端请求一份在线花名册
	OpRosterPull = "roster_pull"
	// OpRoster 服务器下发的花名册
	OpRoster = "roster"
	// OpError 服务器报告的协议错误
	OpError = "error"
)

// Control 控制帧载荷
//
// 身份字段以十进制字符串编码，避免 64 位整数在 JSON 数值里丢失精度。
// 未用到的字段置零值即可，编码时会被省略。
type Control struct {
	Op     string           `json:"op"`
	ID     types.Identity   `json:"id,string,omitempty"`
	Name   string           `json:"name,omitempty"`
	Key    string           `json:"key,omitempty"`
	Value  string           `json:"value,omitempty"`
	Token  types.LobbyToken `json:"token,omitempty"`
	Max    int              `json:"max,omitempty"`
	Users  []RosterUser     `json:"users,omitempty"`
	Reason string           `json:"reason,omitempty"`
}

// RosterUser 花名册里的一名在线客户端
type RosterUser struct {
	ID       types.Identity    `json:"id,string"`
	Name     string            `json:"name"`
	Presence map[string]string `json:"presence,omitempty"`
}

// EncodeControl 把控制帧编码为 JSON
func EncodeControl(c Control) ([]byte, error) {
	if c.Op == "" {
		return nil, ErrMissingOp
	}
	return json.Marshal(c)
}

// DecodeControl 从 JSON 解出控制帧
func DecodeControl(data []byte) (Control, error) {
	var c Control
	if err := json.Unmarshal(data, &c); err != nil {
		return Control{}, err
	}
	if c.Op == "" {
		return Control{}, ErrMissingOp
	}
	return c, nil
}
