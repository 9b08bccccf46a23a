// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/nttcom/pcepcodec/internal/config"
	"github.com/nttcom/pcepcodec/internal/pkg/version"
	"github.com/nttcom/pcepcodec/pkg/logger"
	"github.com/nttcom/pcepcodec/pkg/server"
)

type Flags struct {
	ConfigFile string
	Version    bool
}

func main() {
	f := new(Flags)
	flag.StringVar(&f.ConfigFile, "f", "pcepd.yaml", "Specify a configuration file")
	flag.BoolVar(&f.Version, "version", false, "Print the version and exit")
	flag.Parse()

	if f.Version {
		fmt.Println(version.Program("pcepd"))
		return
	}

	c, err := config.ReadConfigFile(f.ConfigFile)
	if err != nil {
		log.Panic(err)
	}
	if err := os.MkdirAll(c.Global.Log.Path, 0755); err != nil {
		log.Panic(err)
	}
	fp, err := os.OpenFile(filepath.Join(c.Global.Log.Path, c.Global.Log.Name), os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Panic(err)
	}
	defer fp.Close()

	logger := logger.LogInit(fp, c.Global.Log.Debug)
	defer func() {
		_ = logger.Sync()
	}()
	zap.ReplaceGlobals(logger)

	o := new(server.Options)
	o.GrpcAddr = c.Global.GrpcServer.Address
	o.GrpcPort = c.Global.GrpcServer.Port
	o.TapEnabled = c.Global.Tap.Enabled
	o.TapAddr = c.Global.Tap.Address
	o.TapPort = c.Global.Tap.Port
	o.MetricsEnabled = c.Global.Metrics.Enabled
	o.MetricsAddr = c.Global.Metrics.Address
	o.MetricsPort = c.Global.Metrics.Port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := server.NewRegistry(c.Global.Codec, logger)
	s := server.NewServer(registry, server.NewMetrics(), logger)
	logger.Info("pcepd started", zap.String("version", version.Version()))
	if err := s.Run(ctx, o); err != nil {
		logger.Error("pcepd stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
