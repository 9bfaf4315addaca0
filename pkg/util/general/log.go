/*
Copyright 2022 The Katalyst Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package general

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"k8s.io/klog/v2"
)

// LoggingPKG controls how much of the caller path is put in front of
// every log line.
type LoggingPKG int

const (
	LoggingPKGNone LoggingPKG = iota
	LoggingPKGShort
	LoggingPKGFull
)

var loggingPKGNames = map[string]LoggingPKG{
	"none":  LoggingPKGNone,
	"short": LoggingPKGShort,
	"full":  LoggingPKGFull,
}

func (l *LoggingPKG) Type() string {
	return "LoggingPKG"
}

func (l *LoggingPKG) String() string {
	for name, level := range loggingPKGNames {
		if level == *l {
			return name
		}
	}
	return strconv.Itoa(int(*l))
}

// Set accepts either a level name (none, short, full) or its numeric value.
func (l *LoggingPKG) Set(value string) error {
	if level, ok := loggingPKGNames[strings.ToLower(value)]; ok {
		*l = level
		return nil
	}

	level, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid logging package level %q", value)
	}
	if level < int(LoggingPKGNone) || level > int(LoggingPKGFull) {
		return fmt.Errorf("logging package level %d out of range", level)
	}
	*l = LoggingPKG(level)
	return nil
}

var (
	defaultLoggingPackage = LoggingPKGFull
	defaultLoggingMtx     sync.RWMutex
)

// SetDefaultLoggingPackage should only be called while applying flags.
func SetDefaultLoggingPackage(l LoggingPKG) {
	defaultLoggingMtx.Lock()
	defer defaultLoggingMtx.Unlock()
	defaultLoggingPackage = l
}

func getDefaultLoggingPackage() LoggingPKG {
	defaultLoggingMtx.RLock()
	defer defaultLoggingMtx.RUnlock()
	return defaultLoggingPackage
}

// callDepth skips callerPrefix, the formatter and the exported helper.
const callDepth = 3

const skippedPackagePrefix = "github.com/kubewharf/"

// callerPrefix names the function that called into this package.
func callerPrefix(pkg LoggingPKG) string {
	pc, _, _, ok := runtime.Caller(callDepth)
	if !ok {
		return ""
	}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return ""
	}

	callPath := fn.Name()
	lastElem := callPath[strings.LastIndex(callPath, "/")+1:]

	switch pkg {
	case LoggingPKGNone:
		return lastElem[strings.LastIndex(lastElem, ".")+1:]
	case LoggingPKGShort:
		return lastElem
	case LoggingPKGFull:
		return strings.TrimPrefix(callPath, skippedPackagePrefix)
	}
	return ""
}

func loggingPath(pkg LoggingPKG, message string, params ...interface{}) string {
	return "[" + callerPrefix(pkg) + "] " + fmt.Sprintf(message, params...)
}

func Infof(message string, params ...interface{}) {
	klog.InfofDepth(1, loggingPath(getDefaultLoggingPackage(), message, params...))
}

func InfofV(level int, message string, params ...interface{}) {
	klog.V(klog.Level(level)).InfofDepth(1, loggingPath(getDefaultLoggingPackage(), message, params...))
}

func Warningf(message string, params ...interface{}) {
	klog.WarningfDepth(1, loggingPath(getDefaultLoggingPackage(), message, params...))
}

func Errorf(message string, params ...interface{}) {
	klog.ErrorfDepth(1, loggingPath(getDefaultLoggingPackage(), message, params...))
}

// Logger prepends a fixed component prefix to the caller-derived one.
type Logger struct {
	pkg    LoggingPKG
	prefix string
}

// LoggerWithPrefix returns a Logger for one component. Logger methods
// must be called directly by the code being logged for.
func LoggerWithPrefix(prefix string, pkg LoggingPKG) Logger {
	if len(prefix) > 0 {
		prefix = prefix + ": "
	}
	return Logger{pkg: pkg, prefix: prefix}
}

func (l Logger) logging(message string, params ...interface{}) string {
	return "[" + l.prefix + callerPrefix(l.pkg) + "] " + fmt.Sprintf(message, params...)
}

func (l Logger) Infof(message string, params ...interface{}) {
	klog.InfofDepth(1, l.logging(message, params...))
}

func (l Logger) InfofV(level int, message string, params ...interface{}) {
	klog.V(klog.Level(level)).InfofDepth(1, l.logging(message, params...))
}

func (l Logger) Warningf(message string, params ...interface{}) {
	klog.WarningfDepth(1, l.logging(message, params...))
}

func (l Logger) Errorf(message string, params ...interface{}) {
	klog.ErrorfDepth(1, l.logging(message, params...))
}
