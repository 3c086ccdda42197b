package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Mohanapriya2828/schoolapp-ado/config"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/controller"
	kafkaDriver "github.com/Mohanapriya2828/schoolapp-ado/internal/infrastructure/message-queue/kafka"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/infrastructure/tracing"
	custommw "github.com/Mohanapriya2828/schoolapp-ado/internal/middleware"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/repository"
	"github.com/Mohanapriya2828/schoolapp-ado/internal/service"
	"github.com/Mohanapriya2828/schoolapp-ado/pkg/response"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type App struct {
	DB     *sqlx.DB
	Config *config.Config
	Server *echo.Echo
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	}

	defer func() {
		if traceProvider == nil {
			return
		}
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	var kafkaProducer *kafka.Conn
	if app.Config.KafkaConfig.BrokerAddress != "" {
		kafkaProducer, err = kafkaDriver.CreateKafkaProducer(context.Background(), app.Config)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to connect to the Kafka broker")
		}
	}

	if traceProvider != nil {
		tracer := traceProvider.Tracer("schoolapp-user-service")

		e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				// span creation and naming
				ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
				defer span.End()

				// add the context to the request
				req := c.Request()
				c.SetRequest(req.WithContext(ctx))

				return next(c)
			}
		})
	}

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	g := e.Group("/api/v1")
	g.Use(custommw.Logger)

	repo := repository.CreateNewRepository(app.DB)
	svc := service.CreateNewService(repo, *app.Config, kafkaProducer)
	controller.CreateController(g, svc, app.Config.JWTConfig.Secret)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	app.Server = e

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
