package main

import (
	"fmt"
	"os"

	"github.com/loresico/gemma3-vision-demo/pkg/common"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/api"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/metrics"
	"github.com/loresico/gemma3-vision-demo/pkg/vision/infrastructure/web"
)

func main() {
	err := mainImpl()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	config, err := common.LoadConfig("config.yaml")
	if err != nil {
		return err
	}
	demo, err := api.NewAPI(config)
	if err != nil {
		return err
	}
	// The model must be usable before we accept a single request; serving a page which can only
	// answer with failures helps nobody.
	if err := demo.EnsureModelLoaded(); err != nil {
		return err
	}
	logger := common.NewFileLogger(config.GetStringOrDefault(api.ConfigKeyLogPath, "log.txt"))
	server, err := web.NewServer(demo, web.ThemeFromConfig(config), metrics.NewRecorder(), config, logger)
	if err != nil {
		return err
	}
	return server.Run()
}
