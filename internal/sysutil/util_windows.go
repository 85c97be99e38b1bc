//go:build windows

package sysutil

import "math"

// RlimitNoFile has no Windows equivalent; report no effective limit.
func RlimitNoFile() (cur uint64, err error) {
	return math.MaxUint64, nil
}
