package app

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/credsvc/internal/config"
	httpx "github.com/you/credsvc/internal/http"
	"github.com/you/credsvc/internal/http/handlers"
	"github.com/you/credsvc/internal/http/middleware"
)

func Run(cfg *config.Config) error {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	container, err := NewContainer(cfg)
	if err != nil {
		return err
	}
	defer container.Close()

	if container.RedisClient != nil {
		if err := container.RedisClient.Ping(context.Background()).Err(); err != nil {
			return err
		}
	}

	authH := handlers.NewAuthHandlers(container.AuthSvc, container.SessionSvc, cfg.SessionCookieName, cfg.SessionLifetime)
	polH := handlers.NewPolicyHandlers(container.PolicySvc)

	sessionMW := middleware.SessionAuth(cfg.SessionCookieName, container.SessionSvc, container.UserRepo)
	casbinMW := middleware.NewCasbinMW(container.PolicySvc)

	r := httpx.BuildRouter(authH, polH, sessionMW, casbinMW)

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	defer stopReaper()
	go container.Reaper.Run(reaperCtx)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)
	return http.ListenAndServe(addr, r)
}
