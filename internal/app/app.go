package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewup/crewup-api/internal/config"
	"github.com/crewup/crewup-api/internal/handler"
	"github.com/crewup/crewup-api/internal/middleware"
	"github.com/crewup/crewup-api/internal/repository/postgres"
	"github.com/crewup/crewup-api/internal/service"
)

// App представляет приложение со всеми зависимостями
type App struct {
	config *config.Config
	db     *pgxpool.Pool
	server *http.Server
	logger *slog.Logger
}

// New создает новый экземпляр приложения
func New(cfg *config.Config) (*App, error) {
	// Инициализируем структурированный логгер (JSON формат)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	app := &App{
		config: cfg,
		logger: logger,
	}

	return app, nil
}

// Initialize инициализирует все компоненты приложения
func (a *App) Initialize(ctx context.Context) error {
	// Подключаемся к базе данных
	if err := a.connectDB(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Настраиваем HTTP сервер и роутинг
	a.setupServer()

	a.logger.Info("Application initialized successfully")
	return nil
}

// connectDB устанавливает подключение к PostgreSQL с connection pool
func (a *App) connectDB(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(a.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	// Настраиваем размеры connection pool
	poolConfig.MaxConns = a.config.Database.MaxConns
	poolConfig.MinConns = a.config.Database.MinConns

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Проверяем подключение к БД
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	a.db = pool
	a.logger.Info("Connected to database")
	return nil
}

// setupServer инициализирует HTTP роутер и обработчики
func (a *App) setupServer() {
	// Инициализируем слой репозиториев (работа с БД)
	userRepo := postgres.NewUserRepository(a.db)
	oppRepo := postgres.NewOpportunityRepository(a.db)
	requestRepo := postgres.NewRequestRepository(a.db)
	messageRepo := postgres.NewMessageRepository(a.db)
	fileRepo := postgres.NewFileRepository(a.db)

	// Инициализируем слой сервисов (бизнес-логика)
	events := service.NewEventBus()
	membershipService := service.NewMembershipService(requestRepo, oppRepo, userRepo, events)
	oppService := service.NewOpportunityService(oppRepo, userRepo)
	profileService := service.NewProfileService(userRepo)
	chatService := service.NewChatService(messageRepo, userRepo, membershipService, events)
	fileService := service.NewFileService(fileRepo, userRepo, membershipService, events)
	authService := service.NewAuthService(
		userRepo,
		a.config.JWT.Secret,
		a.config.JWT.GetExpiration(),
	)
	statsService := service.NewStatsService(a.db)

	// Инициализируем HTTP обработчики
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	oppHandler := handler.NewOpportunityHandler(oppService, membershipService)
	requestHandler := handler.NewRequestHandler(membershipService)
	chatHandler := handler.NewChatHandler(chatService)
	fileHandler := handler.NewFileHandler(fileService)
	streamHandler := handler.NewStreamHandler(events)
	statsHandler := handler.NewStatsHandler(statsService)

	// Инициализируем middleware для JWT авторизации
	authMiddleware := middleware.AuthMiddleware(authService)

	// Настраиваем роутер
	r := chi.NewRouter()

	// Глобальные middleware (применяются ко всем запросам)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	// Публичные эндпоинты (без авторизации)
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// Health check для мониторинга
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
				a.logger.Error("Failed to write health check response", "error", err)
			}
		})
	})

	// Защищенные эндпоинты (требуют JWT токен в заголовке Authorization)
	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))
		r.Use(authMiddleware)

		// Эндпоинты профилей
		r.Get("/profile", profileHandler.GetOwn)
		r.Put("/profile", profileHandler.Update)
		r.Get("/users/{uid}", profileHandler.GetByID)

		// Эндпоинты проектов
		r.Post("/opportunities", oppHandler.Create)
		r.Get("/opportunities", oppHandler.List)
		r.Get("/opportunities/{id}", oppHandler.Get)
		r.Delete("/opportunities/{id}", oppHandler.Delete)
		r.Get("/opportunities/{id}/status", oppHandler.Status)
		r.Delete("/opportunities/{id}/members/{uid}", oppHandler.RemoveMember)

		// Эндпоинты заявок: все изменения членства идут только через них
		r.Post("/opportunities/{id}/join", requestHandler.Join)
		r.Post("/requests/{id}/decide", requestHandler.Decide)
		r.Get("/requests/pending", requestHandler.ListPending)

		// Эндпоинты командного чата и файлов (доступ только команде)
		r.Post("/opportunities/{id}/messages", chatHandler.PostMessage)
		r.Get("/opportunities/{id}/messages", chatHandler.ListMessages)
		r.Post("/opportunities/{id}/files", fileHandler.AddFile)
		r.Get("/opportunities/{id}/files", fileHandler.ListFiles)

		// Эндпоинты статистики
		r.Get("/stats", statsHandler.GetStats)
		r.Get("/stats/user", statsHandler.GetUserStats)
	})

	// SSE стримы живут дольше минуты, поэтому без Timeout middleware
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/notifications/stream", streamHandler.Notifications)
		r.Get("/opportunities/{id}/stream", streamHandler.Opportunity)
	})

	// Создаем HTTP сервер с настройками таймаутов
	addr := fmt.Sprintf("%s:%s", a.config.Server.Host, a.config.Server.Port)
	a.server = &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	a.logger.Info("HTTP server configured", "addr", addr)
}

// Run запускает HTTP сервер
func (a *App) Run() error {
	a.logger.Info("Starting HTTP server", "addr", a.server.Addr)
	return a.server.ListenAndServe()
}

// Shutdown корректно останавливает приложение
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application")

	// Останавливаем HTTP сервер (ждем завершения текущих запросов)
	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	// Закрываем подключения к базе данных
	if a.db != nil {
		a.db.Close()
	}

	a.logger.Info("Application stopped gracefully")
	return nil
}
