package main

import (
	"log"
	"net/http"

	_ "tasktrack/docs" // swagger docs

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"tasktrack/internal/auth"
	"tasktrack/internal/cache"
	"tasktrack/internal/config"
	"tasktrack/internal/db"
	"tasktrack/internal/handler"
	"tasktrack/internal/model"
	"tasktrack/internal/repository"
	"tasktrack/internal/router"
	"tasktrack/internal/service"
)

// @title Task Tracking API
// @version 1.0
// @description Multi-tenant task tracking with token sessions. Authenticate
// @description by sending the token from register/login in the x-auth header.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey XAuth
// @in header
// @name x-auth
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(echomw.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.UserToken{},
		&model.Task{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	userRepo := repository.NewUserRepository(gormDB)
	tokenRepo := repository.NewTokenRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	tokenSvc := auth.NewTokenService(cfg.TokenSecret)

	userService := service.NewUserService(userRepo, tokenRepo, tokenSvc)
	taskService := service.NewTaskService(taskRepo, cacheClient)

	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService)

	router.Register(e, userHandler, taskHandler, userService)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
