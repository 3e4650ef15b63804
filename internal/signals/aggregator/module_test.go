package aggregator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"github.com/gungeon-together/go-gtnet/config"
	"github.com/gungeon-together/go-gtnet/internal/signals/argscan"
	"github.com/gungeon-together/go-gtnet/internal/signals/envscan"
	"github.com/gungeon-together/go-gtnet/internal/signals/invitechan"
	"github.com/gungeon-together/go-gtnet/internal/signals/passive"
	"github.com/gungeon-together/go-gtnet/pkg/interfaces"
)

// TestModule_CollectsChannels 测试模块收集通道组
func TestModule_CollectsChannels(t *testing.T) {
	var agg interfaces.Aggregator

	app := fx.New(
		invitechan.Module(),
		argscan.Module(),
		envscan.Module(),
		passive.Module(),
		Module(),
		fx.NopLogger,
		fx.Populate(&agg),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	require.NotNil(t, agg)
	assert.Equal(t, []string{"invite", "argscan", "envscan", "passive"}, agg.Channels())

	t.Log("✅ 模块通道收集测试通过")
}

// TestModule_DisabledChannelsExcluded 测试被禁用的通道不入组
func TestModule_DisabledChannelsExcluded(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Signals.EnableLaunchArgs = false
	cfg.Signals.EnableEnvironment = false

	var agg interfaces.Aggregator

	app := fx.New(
		fx.Supply(cfg),
		invitechan.Module(),
		argscan.Module(),
		envscan.Module(),
		passive.Module(),
		Module(),
		fx.NopLogger,
		fx.Populate(&agg),
	)

	ctx := context.Background()
	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	require.NotNil(t, agg)
	assert.Equal(t, []string{"invite", "passive"}, agg.Channels())

	t.Log("✅ 禁用通道剔除测试通过")
}
