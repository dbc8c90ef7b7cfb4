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

package main

import (
	"bytes"
	"strconv"
)

const ( // NumericOrState.whichType values
	ARG_ENABLED = iota
	ARG_DISABLED
	ARG_IS_NUMBER
)

type NumericOrState struct {
	whichType int // see consts above
	value     int
}

// Inspired by from zokumbsp's parser
func (c *ProgramConfig) FromCommandLine(args []string) bool {
	files := make([]string, 0)
	skip := false
	for argIdx, arg := range args {
		if len(arg) < 1 {
			break
		}
		if skip {
			skip = false
			continue
		}

		if arg[0] != '-' {
			files = append(files, arg)
			if len(files) > 1 {
				Log.Error("This program doesn't support specifying more than one input file - aborting.")
				return false
			}
			c.InputFileName = files[0]
			continue
		}

		if len(arg) < 2 {
			continue
		}
		switch arg[1] {
		case 'm':
			{
				if !c.parseMapList([]byte(arg)[2:]) {
					return false
				}
			}
		case 't':
			{
				nos, rest := readNumeric("-t", []byte(arg)[2:])
				if nos.whichType != ARG_IS_NUMBER {
					Log.Error("You are supposed to pass -t=<number of tics>, not -t+ or -t-.\n")
					return false
				}
				if nos.value <= 0 {
					Log.Error("Need to simulate at least one tic.\n")
					return false
				}
				c.Tics = nos.value
				if len(rest) > 0 {
					Log.Error("Syntax error: -t parameter is followed by garbage '%s', it will be ignored.\n", string(rest))
				}
			}
		case 's':
			{
				enabled, rest := isEnabled([]byte(arg)[2:])
				c.SightReport = enabled
				if len(rest) > 0 {
					Log.Error("Syntax error: -s parameter is followed by garbage; expected -s, -s+ or -s-, no other variants allowed.\n")
				}
			}
		case 'j':
			{
				nos, rest := readNumeric("-j", []byte(arg)[2:])
				if nos.whichType == ARG_DISABLED {
					// one map at a time
					nos.value = 1
				} else if nos.whichType == ARG_ENABLED {
					// to auto mode
					nos.value = 0
				}
				c.Jobs = nos.value
				if len(rest) > 0 {
					Log.Error("Syntax error: -j parameter is followed by garbage '%s', it will be ignored.\n", string(rest))
				}
			}
		case 'v':
			{
				// "count" type: -v, -vv, -vvv, etc.
				vs := 0
				barg := []byte(arg)[1:]
				for i := 0; i < len(arg)-1; i++ {
					if barg[i] == 'v' {
						vs++
					} else {
						break
					}
				}
				c.VerbosityLevel += vs
			}
		case '-':
			{
				// parameter starts with double hyphen, e.g. --something, and
				// always takes a value from the next argument
				fileSatisfied := len(args) > argIdx+1 && args[argIdx+1] != ""
				if !fileSatisfied {
					if bytes.Equal([]byte(arg), []byte("--snapshot")) ||
						bytes.Equal([]byte(arg), []byte("--cpuprofile")) ||
						bytes.Equal([]byte(arg), []byte("--seed")) {
						Log.Error("Modifier '%s' was present without a value following it - aborting.\n",
							arg)
					} else {
						Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
					}
					return false
				}
				value := args[argIdx+1]
				skip = true
				if bytes.Equal([]byte(arg), []byte("--snapshot")) {
					// Parameter: write final state of each map to file
					// following this parameter
					c.SnapshotFile = value
				} else if bytes.Equal([]byte(arg), []byte("--cpuprofile")) {
					// Parameter: write cpu profile to file following this
					// parameter
					c.Profile = true
					c.ProfilePath = value
				} else if bytes.Equal([]byte(arg), []byte("--seed")) {
					t, v, rest := readNumericOnly([]byte(value))
					if !t || len(rest) > 0 || v > 255 {
						Log.Error("Seed must be a number from 0 to 255, got '%s' - aborting.\n", value)
						return false
					}
					c.Seed = v
				} else {
					Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
					return false
				}
			}
		default:
			{
				Log.Error("Unrecognised argument '%s' - aborting.\n", arg)
				return false
			}
		}
	}
	return true
}

// -m=MAP01,MAP02 Map names are stored in upper case
func (c *ProgramConfig) parseMapList(p []byte) bool {
	if len(p) == 0 || p[0] != '=' {
		Log.Error("You are supposed to pass -m=<map>[,<map>...] - aborting.\n")
		return false
	}
	for _, name := range bytes.Split(p[1:], []byte(",")) {
		if len(name) == 0 {
			continue
		}
		name = bytes.ToUpper(name)
		if !IsALevel(name) {
			Log.Error("'%s' is not a map name, ignoring it.\n", string(name))
			continue
		}
		c.FilterLevel = append(c.FilterLevel, name)
	}
	if len(c.FilterLevel) == 0 {
		Log.Error("No valid map names were given to -m - aborting.\n")
		return false
	}
	return true
}

func isEnabled(arg []byte) (bool, []byte) {
	if len(arg) == 0 {
		return true, arg
	}
	if arg[0] == '+' {
		return true, arg[1:]
	} else if arg[0] == '-' {
		return false, arg[1:]
	} else {
		return true, arg
	}
}

// a+, a-, or a=<numeric_value_without_sign>
func readNumeric(prefix string, arg []byte) (NumericOrState, []byte) {
	if len(arg) == 0 {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
	if arg[0] == '+' {
		return NumericOrState{whichType: ARG_ENABLED}, arg[1:]
	} else if arg[0] == '-' {
		return NumericOrState{whichType: ARG_DISABLED}, arg[1:]
	} else if arg[0] == '=' {
		// !!! doesn't support negative values, and values with explicit "+"
		// sign either
		t, v, rest := readNumericOnly(arg[1:])
		if t {
			return NumericOrState{
				whichType: ARG_IS_NUMBER,
				value:     v,
			}, rest
		} else {
			Log.Error("Couldn't properly parse '%s%s'. Some parameters are going to be ignored as the result.\n", prefix, string(arg))
			return NumericOrState{
				whichType: ARG_ENABLED,
			}, arg[:0] // ignore the rest of parameters
		}
	} else {
		return NumericOrState{whichType: ARG_ENABLED}, arg
	}
}

func readNumericOnly(arg []byte) (bool, int, []byte) {
	if len(arg) == 0 {
		return false, 0, arg
	}
	l := 0
	for i := 0; i < len(arg); i++ {
		c := arg[i]
		if '0' <= c && c <= '9' {
			l++
		} else {
			break
		}
	}
	if l > 0 {
		v, err := strconv.Atoi(string(arg[:l]))
		if err != nil {
			Log.Error("value '%s' was too big to interpret as int.\n",
				string(arg[:l]))
			return false, 0, arg[l:]
		}
		return true, v, arg[l:]
	}
	return false, 0, arg
}
