package tools

import "github.com/golang/glog"

var isEnabled = true

func EnableLogger() {
	isEnabled = true
}

func DisableLogger() {
	isEnabled = false
}

// Logs progress messages through glog unless the logger was disabled with -silent
func LogOutput(val ...interface{}) {
	if isEnabled {
		glog.InfoDepth(1, val...)
	}
}
