package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// RegisterMetrics mounts the prometheus endpoint at path and installs the
// request metrics middleware on app. The collectors are registered once per
// process.
func RegisterMetrics(app *fiber.App, path string) {
	promOnce.Do(func() {
		prom = fiberprometheus.New("mmorpg-board")
	})
	prom.RegisterAt(app, path)
	app.Use(prom.Middleware)
}
