// Copyright (C) 2022-2023, VigilantDoomer
//
// This file is part of VigilantPhys program.
//
// VigilantPhys is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// VigilantPhys is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with VigilantPhys.  If not, see <https://www.gnu.org/licenses/>.

// Central log (stdout/stderr) of the program
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type MyLogger struct {
	out *logrus.Logger
	err *logrus.Logger
	// Mutex is used to order writes to stdout and stderr, as well as Sync call
	mu sync.Mutex
}

// Logs specific to one map. Each map is simulated by a single goroutine, and
// its output is not forwarded to the stdout but is instead buffered until it
// is merged into main log of MyLogger type, so that maps simulated
// concurrently don't interleave their reports
type MiniLogger struct {
	buf    bytes.Buffer
	logger *logrus.Logger
	entry  *logrus.Entry
}

// Prints the message followed by fields in key order, nothing else. Users
// are reading this, not log collectors
type plainFormatter struct{}

func (f *plainFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	msg := strings.TrimRight(e.Message, "\n")
	if len(e.Data) > 0 {
		keys := make([]string, 0, len(e.Data))
		for k := range e.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "[%s=%v] ", k, e.Data[k])
		}
	}
	b.WriteString(msg)
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func newLogrus(w io.Writer) *logrus.Logger {
	return &logrus.Logger{
		Out:       w,
		Formatter: new(plainFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
}

func CreateLogger() *MyLogger {
	return &MyLogger{
		out: newLogrus(os.Stdout),
		err: newLogrus(os.Stderr),
	}
}

var Log = CreateLogger()

// Maps -v count to log level: 0 is info, 1 adds debug, 2 and more add trace
func levelForVerbosity(verbosity int) logrus.Level {
	switch {
	case verbosity <= 0:
		return logrus.InfoLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

func (log *MyLogger) SetVerbosity(verbosity int) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.out.SetLevel(levelForVerbosity(verbosity))
}

// Your generic printf to let user see things
func (log *MyLogger) Printf(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.out.Infof(s, a...)
}

// As generic as printf, but writes to stderr instead of stdout
// Does NOT interrupt execution of the program
func (log *MyLogger) Error(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.err.Errorf(s, a...)
}

// For advanced users or users that are curious, or programmers, there is
// stuff they might want to see but only when they can really bother to spend
// time reading it
func (log *MyLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.out.Logf(levelForVerbosity(verbosityLevel), s, a...)
}

// Panicking is not a good thing, but at least we can now use formatted printing
// for it
func (log *MyLogger) Panic(s string, a ...interface{}) {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.err.Panicf(s, a...)
}

// Sync is used to wait until all messages are written to the output
func (log *MyLogger) Sync() {
	log.mu.Lock()
	log.mu.Unlock()
}

func (log *MyLogger) Merge(mlog *MiniLogger, preface string) {
	if mlog == nil {
		return
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if len(preface) > 0 {
		log.out.Info(preface)
	}
	content := mlog.buf.Bytes()
	if len(content) > 0 {
		log.out.Out.Write(content)
	}
}

// Logger for the physics of one map: entries carry the map name and land in
// the buffer, at the verbosity of the main log
func CreateMiniLogger(mapName string) *MiniLogger {
	mlog := new(MiniLogger)
	mlog.logger = newLogrus(&mlog.buf)
	Log.mu.Lock()
	mlog.logger.SetLevel(Log.out.GetLevel())
	Log.mu.Unlock()
	mlog.entry = mlog.logger.WithField("map", mapName)
	return mlog
}

func (mlog *MiniLogger) Printf(s string, a ...interface{}) {
	if mlog == nil {
		Log.Printf(s, a...)
		return
	}
	mlog.entry.Infof(s, a...)
}

func (mlog *MiniLogger) Verbose(verbosityLevel int, s string, a ...interface{}) {
	if mlog == nil {
		Log.Verbose(verbosityLevel, s, a...)
		return
	}
	mlog.entry.Logf(levelForVerbosity(verbosityLevel), s, a...)
}

// What World.Log is set to
func (mlog *MiniLogger) FieldLogger() logrus.FieldLogger {
	if mlog == nil {
		return Log.out
	}
	return mlog.entry
}

func (mlog *MiniLogger) String() string {
	return mlog.buf.String()
}
