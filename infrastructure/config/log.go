package config

import (
	"github.com/btcshake/btcshake/infrastructure/logger"
)

var log, _ = logger.Get(logger.SubsystemTags.CNFG)
