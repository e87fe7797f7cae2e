package markgen

import (
	"errors"

	"github.com/GoCodeAlone/markgen/internal/model"
)

// Declaration errors. Diagnostics wrap one of these; inspect them with
// errors.Is.
var (
	// Scanner errors
	ErrMarkerKind      = model.ErrMarkerKind
	ErrUnknownMarker   = model.ErrUnknownMarker
	ErrMarkerArguments = model.ErrMarkerArguments

	// Dependency resolution errors
	ErrUnknownScope             = model.ErrUnknownScope
	ErrNoImplicitScope          = model.ErrNoImplicitScope
	ErrInvalidProviderSignature = model.ErrInvalidProviderSignature
	ErrCircularDependency       = model.ErrCircularDependency

	// State machine errors
	ErrInvalidEventSignature  = model.ErrInvalidEventSignature
	ErrInvalidSetterSignature = model.ErrInvalidSetterSignature
	ErrUnknownTarget          = model.ErrUnknownTarget
	ErrDispatcherConflict     = model.ErrDispatcherConflict

	// Plugin errors
	ErrInvalidPlugField = model.ErrInvalidPlugField
	ErrBroadcastValue   = model.ErrBroadcastValue

	// Presenter errors
	ErrInvalidHandlerNaming    = model.ErrInvalidHandlerNaming
	ErrInvalidHandlerSignature = model.ErrInvalidHandlerSignature

	// Shared errors
	ErrReservedName = model.ErrReservedName
	ErrEmissionIO   = model.ErrEmissionIO
)

// Generator errors
var (
	ErrConfigNil          = errors.New("config is nil")
	ErrConfigNotPointer   = errors.New("config must be a pointer")
	ErrConfigNotStruct    = errors.New("config must be a struct")
	ErrInvalidPrefix      = errors.New("invalid marker prefix")
	ErrInvalidSuffix      = errors.New("invalid generated file suffix")
	ErrInvalidImportPath  = errors.New("invalid runtime import path")
	ErrInvalidScopeBase   = errors.New("invalid scope base")
	ErrInvalidAllowedType = errors.New("invalid allowed type")
	ErrUnsupportedFormat  = errors.New("unsupported config file format")
	ErrDestinationNil     = errors.New("destination is nil")
	ErrGenerationFailed   = errors.New("generation reported errors")
)
