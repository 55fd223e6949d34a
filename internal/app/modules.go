package app

import (
	"github.com/xzdarcy/rete/internal/registry"
	"github.com/xzdarcy/rete/modules/env_vars"
	"github.com/xzdarcy/rete/modules/http_request"
	"github.com/xzdarcy/rete/modules/math"
	"github.com/xzdarcy/rete/modules/print"
	"github.com/xzdarcy/rete/modules/socketio"
	"github.com/xzdarcy/rete/modules/value"
)

// coreModules is the definitive list of all modules that are compiled into
// the rete binary.
func coreModules() []registry.Module {
	return []registry.Module{
		&env_vars.Module{},
		http_request.NewModule(),
		math.Module{},
		&print.Module{},
		socketio.Module{},
		value.Module{},
	}
}
