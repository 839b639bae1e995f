// main.go — точка входа Cinemapp.
// Сборка процесса: config → logger → MongoDB → Redis → repositories →
// services → handlers → HTTP-сервер.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/magicaleks/Cinemapp/internal/api/handlers"
	"github.com/magicaleks/Cinemapp/internal/api/middleware"
	"github.com/magicaleks/Cinemapp/internal/auth"
	"github.com/magicaleks/Cinemapp/internal/cache"
	"github.com/magicaleks/Cinemapp/internal/config"
	"github.com/magicaleks/Cinemapp/internal/database"
	"github.com/magicaleks/Cinemapp/internal/repository"
	"github.com/magicaleks/Cinemapp/internal/server"
	"github.com/magicaleks/Cinemapp/internal/service"
)

// Таймаут первоначального подключения к внешним зависимостям
// и проверок readiness probe.
const dependencyTimeout = 10 * time.Second

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	// 2. Настройка логгера
	logger := config.SetupLogger(cfg)
	logger.Info("Cinemapp запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Подключение к MongoDB
	connectCtx, cancel := context.WithTimeout(context.Background(), dependencyTimeout)
	defer cancel()

	mongoClient, err := database.Connect(connectCtx, cfg, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к MongoDB: %v", err)
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	db := mongoClient.Database(cfg.MongoDatabase)
	if err := database.EnsureIndexes(connectCtx, db, logger); err != nil {
		log.Fatalf("Ошибка создания индексов: %v", err)
	}

	// 4. Подключение к Redis
	redisClient, err := cache.Connect(connectCtx, cfg.RedisURI, logger)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		_ = redisClient.Close()
	}()

	// 5. Репозитории и кэш
	userRepo := repository.NewUserRepository(db)
	filmRepo := repository.NewFilmRepository(db)
	likesCache := cache.NewLikesCache(redisClient, cfg.LikesCacheTTL)

	// 6. Токены и сервисы
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(userRepo, tokens, logger)
	filmService := service.NewFilmService(filmRepo, userRepo, likesCache, logger)

	// 7. Обработчики
	healthHandler := handlers.NewHealthHandler(
		database.NewChecker(mongoClient, dependencyTimeout),
		cache.NewChecker(redisClient, dependencyTimeout),
	)
	apiHandler := handlers.NewAPIHandler(healthHandler, userService, filmService, logger)

	// 8. HTTP-сервер: metrics и logging — глобальные middleware,
	// JWT применяется к защищённому поддереву внутри роутера
	jwtAuth := middleware.NewJWTAuth(tokens, logger)
	srv := server.New(cfg, logger, apiHandler, jwtAuth,
		middleware.MetricsMiddleware(),
		middleware.RequestLogger(logger),
	)

	// 9. Запуск сервера (блокирующий вызов с graceful shutdown)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		log.Fatalf("Сервер завершился с ошибкой: %v", err)
	}

	logger.Info("Cinemapp остановлен")
}
