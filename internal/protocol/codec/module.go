package codec

import (
	"go.uber.org/fx"
)

// Module codec 的 Fx 模块
var Module = fx.Module("protocol_codec",
	fx.Provide(NewCodec),
)
