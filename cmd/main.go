package main

import (
	"github.com/mallgrid/order/internal/app"
	"github.com/mallgrid/order/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
