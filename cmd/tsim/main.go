package main

import (
	"context"
	"flag"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/soerenfi/opendrive-traffic-simulation/pkg/http"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/http/usecases"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/logger"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/opendrive"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/simulator"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/spatialindex"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/telemetry"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/util"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	mapFile     = flag.String("map", "./data/Town01.xodr", "OpenDRIVE map file (.xodr or .xodr.bz2)")
	numVehicles = flag.Int("vehicles", 10, "number of simulated vehicles")
	seed        = flag.Uint64("seed", 1, "random seed for spawn points and lane choices")
	debug       = flag.Bool("debug", false, "debug logging")
)

func main() {
	flag.Parse()
	log, err := logger.New(*debug)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := util.ReadConfig(); err != nil {
		log.Fatal("read config", zap.Error(err))
	}

	log.Info("loading OpenDRIVE file", zap.String("file", *mapFile))
	parser := opendrive.NewParser(log)
	roadMap, err := parser.Parse(*mapFile)
	if err != nil {
		log.Fatal("parse OpenDRIVE file", zap.String("file", *mapFile), zap.Error(err))
	}
	if unresolved := parser.Unresolved(); len(unresolved) > 0 {
		log.Warn("map has unresolved references", zap.Int("count", len(unresolved)))
		for _, u := range unresolved {
			log.Debug("unresolved reference", zap.Stringer("reference", u))
		}
	}

	rtree := spatialindex.NewRtree()
	rtree.Build(roadMap, 0, log)

	sim := simulator.NewSimulator(log, roadMap, viper.GetFloat64("SIM_TICK_HZ"), *seed)
	for i := 0; i < *numVehicles; i++ {
		v, err := sim.AddVehicle()
		if err != nil {
			log.Fatal("spawn vehicle", zap.Error(err))
		}
		p := v.Position()
		if hit, ok := rtree.Nearest(p.GetX(), p.GetY(), viper.GetFloat64("SPATIAL_INDEX_RADIUS")); ok {
			log.Debug("vehicle spawned", zap.Int("vehicle", v.GetID()), zap.Int("road", hit.RoadID),
				zap.Int("lane", hit.LaneID))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := telemetry.NewHub(log)
	publisher := telemetry.NewPublisher(log, hub, sim, viper.GetDuration("TELEMETRY_PERIOD"))
	mapService := usecases.NewMapService(log, roadMap, rtree, sim, viper.GetFloat64("SPATIAL_INDEX_RADIUS"),
		runtime.NumCPU())
	api := http.NewServer(log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sim.Run(gctx)
	})
	g.Go(func() error {
		return publisher.Run(gctx)
	})
	g.Go(func() error {
		return api.Use(gctx, viper.GetBool("API_USE_RATE_LIMIT"), mapService, hub)
	})

	if err := g.Wait(); err != nil {
		log.Error("traffic simulation stopped with error", zap.Error(err))
		return
	}
	log.Info("traffic simulation stopped")
}
