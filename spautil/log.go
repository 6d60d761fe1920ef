/*
Copyright © 2026 the SPA authors.
This file is part of SPA.

SPA is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SPA is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SPA.  If not, see <http://www.gnu.org/licenses/>.
*/

package spautil

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// newLogger returns a logger at the given level writing to w and, if
// logFile is not empty, to a rotated log file. The returned function
// closes the log file.
func newLogger(w io.Writer, level, logFile string) (*logrus.Logger, func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("spa: invalid LogLevel: %v", err)
	}
	log := logrus.New()
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if logFile == "" {
		log.SetOutput(w)
		return log, func() {}, nil
	}
	lj := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    32, // MB
		MaxBackups: 3,
	}
	log.SetOutput(io.MultiWriter(w, lj))
	return log, func() { lj.Close() }, nil
}
