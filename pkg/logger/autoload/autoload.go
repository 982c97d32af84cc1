// Package autoload configures the global logger from the environment as a
// side effect of being imported.
package autoload

import (
	configx "leadline/pkg/config"
	logx "leadline/pkg/logger"
)

func init() {
	cfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*cfg)
}
