// Package gtnet 提供多人联机会话层的统一入口。
package gtnet

import (
	"fmt"
	"runtime"

	"github.com/gungeon-together/go-gtnet/pkg/types"
)

// Version 当前版本号，与线上协议握手携带的版本一致。
const Version = types.Version

// 构建信息，由构建脚本通过 -ldflags 注入。
var (
	// GitCommit Git 提交哈希
	GitCommit = "unknown"
	// BuildDate 构建日期
	BuildDate = "unknown"
)

// VersionInfo 返回完整的版本信息字符串。
func VersionInfo() string {
	return fmt.Sprintf("gtnet %s (commit: %s, built: %s, %s %s/%s)",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
