//go:build unix

package main

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// disableCoreDumps keeps secrets held in memory out of core files.
func disableCoreDumps() error {
	err := unix.Setrlimit(unix.RLIMIT_CORE, &unix.Rlimit{Cur: 0, Max: 0})
	return errors.Wrap(err, "unable to disable core dumps")
}
