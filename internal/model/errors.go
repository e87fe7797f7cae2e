package model

import (
	"errors"
)

// Declaration errors. Each is reported against the declaration responsible
// and only skips the artifact that declaration belongs to.
var (
	// Scanner errors
	ErrMarkerKind      = errors.New("marker not allowed on this declaration kind")
	ErrUnknownMarker   = errors.New("unknown marker")
	ErrMarkerArguments = errors.New("invalid marker arguments")

	// Dependency resolution errors
	ErrUnknownScope             = errors.New("unknown scope")
	ErrNoImplicitScope          = errors.New("no implicit scope")
	ErrInvalidProviderSignature = errors.New("invalid provider signature")
	ErrCircularDependency       = errors.New("circular dependency detected")

	// State machine errors
	ErrInvalidEventSignature  = errors.New("invalid event signature")
	ErrInvalidSetterSignature = errors.New("invalid setter signature")
	ErrUnknownTarget          = errors.New("unknown state machine target")
	ErrDispatcherConflict     = errors.New("state machine targets share a package")

	// Plugin errors
	ErrInvalidPlugField = errors.New("invalid plug field")
	ErrBroadcastValue   = errors.New("value-returning method on a broadcast contract")

	// Presenter errors
	ErrInvalidHandlerNaming    = errors.New("invalid handler naming")
	ErrInvalidHandlerSignature = errors.New("invalid handler signature")

	// Shared errors
	ErrReservedName = errors.New("name collides with generated code")
	ErrEmissionIO   = errors.New("emission failed")
)
