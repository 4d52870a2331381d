package api

import (
	"net/http"

	"github.com/AlexZinkM/pack-mint/internal/handler"
	"github.com/AlexZinkM/pack-mint/internal/middleware"
	"github.com/AlexZinkM/pack-mint/solana"

	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/AlexZinkM/pack-mint/docs"
)

// RouterConfig carries what the router needs besides the service.
type RouterConfig struct {
	APISecret      string
	AllowedOrigins []string
	Logger         *logrus.Logger
}

// SetupRouter sets up router with handlers
func SetupRouter(svc *solana.Service, cfg RouterConfig) http.Handler {
	solanaHandler := handler.NewSolanaHandler(svc, cfg.Logger)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/", handler.Root)
	mux.HandleFunc("/healthz", handler.Health)

	// Mint endpoints
	mux.HandleFunc("/api/candy-machine", solanaHandler.CandyMachine)
	mux.Handle("/api/mint", middleware.APISecret(cfg.APISecret)(http.HandlerFunc(solanaHandler.Mint)))
	mux.HandleFunc("/api/mint/transaction", solanaHandler.TransactionRequest)
	mux.HandleFunc("/api/mint/qr", solanaHandler.QRCode)

	// Chain lookups
	mux.HandleFunc("/api/transactions/{signature}", solanaHandler.TransactionStatus)
	mux.HandleFunc("/api/wallets/{address}/balance", solanaHandler.Balance)

	var h http.Handler = mux
	h = middleware.AccessLog(cfg.Logger)(h)
	h = middleware.RequestID(h)
	h = cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.APISecretHeader, handler.IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{handler.IdempotencyKeyHeader, handler.IdempotentReplayedHeader, middleware.RequestIDHeader},
		MaxAge:         300,
	})(h)
	return h
}
