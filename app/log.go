package app

import (
	"github.com/btcshake/btcshake/infrastructure/logger"
	"github.com/btcshake/btcshake/util/panics"
)

var log, _ = logger.Get(logger.SubsystemTags.BTCS)
var spawn = panics.GoroutineWrapperFunc(log)
