// Package identity 实现本机身份解析
package identity

import (
	"sync"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"github.com/gungeon-together/go-gtnet/pkg/lib/log"
	"github.com/gungeon-together/go-gtnet/pkg/types"
)

var logger = log.Logger("core/identity")

// 确保实现了接口
var _ interfaces.LocalIdentity = (*Resolver)(nil)

// Resolver 本机身份解析器
//
// 对提供者的身份查询做一次性缓存：首次取得非空身份后固定，
// 此前每次读取都重查提供者。
type Resolver struct {
	mu       sync.Mutex
	provider interfaces.Provider
	cached   types.Identity
}

// NewResolver 创建身份解析器
func NewResolver(provider interfaces.Provider) *Resolver {
	return &Resolver{provider: provider}
}

// Local 返回本机身份
//
// 提供者未绑定时返回 types.EmptyIdentity，下次读取自动重查。
func (r *Resolver) Local() types.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.cached.IsEmpty() {
		return r.cached
	}

	if r.provider == nil {
		return types.EmptyIdentity
	}

	id := r.provider.GetLocalIdentity()
	if id.IsEmpty() {
		return types.EmptyIdentity
	}

	r.cached = id
	logger.Info("本机身份已绑定", "identity", id)
	return id
}

// Bound 报告身份是否已成功取得
func (r *Resolver) Bound() bool {
	return !r.Local().IsEmpty()
}
