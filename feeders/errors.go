package feeders

import (
	"errors"
)

var (
	ErrEnvInvalidStructure = errors.New("env: invalid structure")
	ErrEnvEmptyPrefix      = errors.New("env: prefix cannot be empty")
	ErrEnvFieldCannotBeSet = errors.New("env: field cannot be set")
	ErrFileRead            = errors.New("cannot read config file")
)
