package guestmem

import (
	"go.uber.org/zap"

	"github.com/asakhar/cutils/cstr"
)

// logger shares the cstr logger so one SetLogger call covers both packages.
func logger() *zap.Logger {
	return cstr.Logger().Named("guestmem")
}
