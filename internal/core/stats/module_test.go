package stats

import (
	"context"
	"testing"

	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
	"go.uber.org/fx"
)

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Load 测试 Fx 模块加载
func TestModule_Load(t *testing.T) {
	var loadedStats interfaces.StatsReporter

	app := fx.New(
		Module(),
		fx.NopLogger,
		fx.Invoke(func(reporter interfaces.StatsReporter) {
			loadedStats = reporter
		}),
	)

	ctx := context.Background()

	if err := app.Start(ctx); err != nil {
		t.Fatalf("app.Start() failed: %v", err)
	}

	if loadedStats == nil {
		t.Error("StatsReporter not injected by Fx")
	}

	if err := app.Stop(ctx); err != nil {
		t.Errorf("app.Stop() failed: %v", err)
	}
}

// TestModule_Provides 测试模块提供的类型
func TestModule_Provides(t *testing.T) {
	result := ProvideTracker()

	if result.Stats == nil {
		t.Error("ProvideTracker() did not provide StatsReporter")
	}
}
