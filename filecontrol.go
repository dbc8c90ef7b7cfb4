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
	"io"
	"os"
	"path/filepath"
)

// Controls lifetime of the input wad and the snapshot file - ensures they are
// properly closed by the end of program, regardless of success and failure.
// Snapshots go to a temporary file in the destination's directory first. It
// replaces the destination on success, or is deleted on failure, so that a
// failed run never leaves a half-written snapshot file behind
type FileControl struct {
	success        bool
	fin            *os.File
	fout           *os.File
	inputFileName  string
	outputFileName string
	tmpFileName    string
}

func (fc *FileControl) OpenInputFile(inputFileName string) (*os.File, error) {
	fc.inputFileName = inputFileName
	var err error
	fc.fin, err = os.Open(inputFileName)
	if err != nil {
		fc.fin = nil
	}
	return fc.fin, err
}

func (fc *FileControl) OpenOutputFile(outputFileName string) (*os.File, error) {
	fc.outputFileName = outputFileName
	var err error
	fc.fout, err = os.CreateTemp(filepath.Dir(outputFileName), "tmp")
	if err != nil {
		fc.fout = nil
		return nil, err
	}
	fc.tmpFileName = fc.fout.Name()
	return fc.fout, nil
}

// Success closes everything and puts the snapshot file in place. Returns
// false if any of that failed
func (fc *FileControl) Success() bool {
	if fc.fin == nil {
		Log.Panic("Sanity check failed: descriptor invalid.\n")
	}
	errFin := fc.fin.Close()
	var errFout error
	if fc.fout != nil {
		errFout = fc.fout.Close()
	}
	if errFin != nil {
		Log.Error("Closing input file returned error: %s.\n", errFin.Error())
	}
	if errFout != nil {
		Log.Error("Closing snapshot file returned error: %s.\n", errFout.Error())
	}
	if errFin != nil || errFout != nil {
		return false
	}
	success := true
	if fc.fout != nil {
		success = fc.tempFileReplacesOutput()
	}
	fc.success = true // nothing to clean up on program exit anyway
	return success
}

func (fc *FileControl) tempFileReplacesOutput() bool {
	if err := os.Rename(fc.tmpFileName, fc.outputFileName); err == nil {
		return true
	}
	// rename can fail across file systems, copy then
	success := true
	fin, errFin := os.Open(fc.tmpFileName)
	if errFin != nil {
		Log.Error("Couldn't reopen the temporary file to read from it: %s.\n",
			errFin.Error())
		return false
	}
	fout, errFout := os.OpenFile(fc.outputFileName, os.O_CREATE|os.O_RDWR|os.O_TRUNC,
		os.ModePerm)
	if errFout != nil {
		success = false
		Log.Error("Couldn't open the snapshot file to overwrite it: %s.\n",
			errFout.Error())
	} else {
		_, err := io.Copy(fout, fin)
		if err != nil {
			success = false
			Log.Error("Error when writing the snapshot file: %s.\n",
				err.Error())
		}
		fout.Close()
	}
	fin.Close()
	err := os.Remove(fc.tmpFileName)
	if err != nil {
		success = false
		Log.Error("Couldn't delete temporary file after copying it: %s.\n",
			err.Error())
	}
	return success
}

// Ensures we close all files when program exits. Temporary file is getting
// deleted at this moment
func (fc *FileControl) Shutdown() {
	if fc.success {
		return
	}

	var errFin error
	if fc.fin != nil {
		errFin = fc.fin.Close()
	}

	var errFout error
	if fc.fout != nil {
		errFout = fc.fout.Close()
	}

	if errFin != nil {
		Log.Error("Couldn't close input file '%s': %s\n", fc.inputFileName, errFin.Error())
	}

	if errFout != nil {
		Log.Error("Couldn't close temporary file '%s': %s\n", fc.tmpFileName, errFout.Error())
		return
	}

	if fc.fout != nil {
		err := os.Remove(fc.tmpFileName)
		if err != nil {
			Log.Error("Got error when trying to delete a temporary file '%s': %s\n",
				fc.tmpFileName, err.Error())
		}
	}
}
