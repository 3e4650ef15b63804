// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"context"
)

// Start 创建并启动节点的一步式入口
//
//	node, err := gtnet.Start(ctx, gtnet.WithProvider(p))
func Start(ctx context.Context, opts ...Option) (*Node, error) {
	node, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := node.Start(ctx); err != nil {
		return nil, err
	}
	return node, nil
}

// Host 创建并启动节点，随即开始主持会话
func Host(ctx context.Context, provider Provider, opts ...Option) (*Node, error) {
	node, err := Start(ctx, append([]Option{WithProvider(provider)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := node.StartHosting(); err != nil {
		_ = node.Close()
		return nil, err
	}
	return node, nil
}

// Join 创建并启动节点，随即向指定主机发起加入
func Join(ctx context.Context, provider Provider, target Identity, opts ...Option) (*Node, error) {
	node, err := Start(ctx, append([]Option{WithProvider(provider)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := node.JoinHost(target, ""); err != nil {
		_ = node.Close()
		return nil, err
	}
	return node, nil
}
