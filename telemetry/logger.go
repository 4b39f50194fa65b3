package telemetry

import "github.com/sirupsen/logrus"

// log 遥测模块的日志记录器
var log = logrus.WithField("module", "telemetry")
