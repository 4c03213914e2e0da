package config

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func invalid(format string, args ...any) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf(format, args...))
}
