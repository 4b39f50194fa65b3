package perception

import "github.com/sirupsen/logrus"

// log 感知模块的日志记录器
var log = logrus.WithField("module", "perception")
