package http

import (
	"context"
	"net/http"

	http_router "github.com/soerenfi/opendrive-traffic-simulation/pkg/http/router"
	"github.com/soerenfi/opendrive-traffic-simulation/pkg/http/router/controllers"
	http_server "github.com/soerenfi/opendrive-traffic-simulation/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Server struct {
	Log *zap.Logger
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use runs the HTTP API with the port and timeout from viper until ctx is done.
func (s *Server) Use(
	ctx context.Context,
	useRateLimit bool,
	mapService controllers.MapService,
	telemetry http.Handler,
) error {
	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	return http_router.NewAPI(s.Log).Run(ctx, config, useRateLimit, mapService, telemetry)
}
