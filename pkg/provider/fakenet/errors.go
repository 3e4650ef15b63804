// Package fakenet 提供进程内的平台实现
package fakenet

import "errors"

var (
	// ErrDuplicateUser 身份已在枢纽上注册
	ErrDuplicateUser = errors.New("fakenet: duplicate user")

	// ErrUnknownUser 身份未在枢纽上注册
	ErrUnknownUser = errors.New("fakenet: unknown user")

	// ErrEmptyIdentity 空身份不可注册
	ErrEmptyIdentity = errors.New("fakenet: empty identity")
)
