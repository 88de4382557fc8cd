package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	core_ports "github.com/altatechsystems/imovel-hub-sub000/internal/core/port"
)

type Server struct {
	httpServer *http.Server
	logger     core_ports.LoggerPort
}

// NewServer собирает маршрутизацию сервиса: публичная сторона для владельцев
// (аутентификация - одноразовый токен в ссылке) и административная сторона
// за API Gateway.
func NewServer(port string, allowedOrigins []string, publicHandlers *PublicHandlers, adminHandlers *AdminHandlers, baseLogger core_ports.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(baseLogger)) // Логирует каждый запрос (метод, путь, время выполнения)
	r.Use(middleware.Recoverer)         // Перехватывает паники и возвращает 500 ошибку, чтобы сервер не упал

	// Публичные маршруты: сюда ходят браузеры владельцев с маркетингового
	// сайта, поэтому CORS включен только здесь.
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))

		r.Get("/confirmar/{token}", publicHandlers.HandleValidateToken)
		r.Post("/owner-confirmations/{token}/submit", publicHandlers.HandleSubmitConfirmation)
	})

	r.Route("/api/v1/admin/{tenantID}", func(r chi.Router) {
		r.Use(AuthMiddleware)

		r.Route("/properties/{propertyID}", func(r chi.Router) {
			r.Post("/owner-confirmation-link", adminHandlers.HandleIssueConfirmationLink)
			r.Patch("/confirmations", adminHandlers.HandleOperatorConfirm)
		})

		r.Route("/scheduled-confirmations", func(r chi.Router) {
			r.Get("/", adminHandlers.HandleListConfirmations)
			r.Get("/metrics", adminHandlers.HandleGetMetrics)
			r.Post("/schedule", adminHandlers.HandleScheduleMonthly)
			r.Post("/process", adminHandlers.HandleProcessPending)
			r.Post("/{confirmationID}/cancel", adminHandlers.HandleCancelConfirmation)
		})

		r.Get("/import/batches/{batchID}", adminHandlers.HandleGetImportBatch)
	})

	return &Server{
		httpServer: &http.Server{
			Addr:    ":" + port,
			Handler: r,
		},
		logger: baseLogger,
	}
}

// Start запускает HTTP-сервер
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_ports.Fields{"address": s.httpServer.Addr})
	// ListenAndServe будет работать, пока не получит ошибку или команду Shutdown
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
