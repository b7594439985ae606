package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harborbank/banking/shared/correlation"
	"github.com/harborbank/banking/shared/logging"
	"github.com/harborbank/banking/shared/middleware"
)

var (
	accountServiceURL      = getEnv("ACCOUNT_SERVICE_URL", "http://localhost:8081")
	notificationServiceURL = getEnv("NOTIFICATION_SERVICE_URL", "http://localhost:8082")
	transactionServiceURL  = getEnv("TRANSACTION_SERVICE_URL", "http://localhost:8080")
)

func main() {
	_ = godotenv.Load()

	logger := logging.New("api-gateway")
	defer logger.Sync()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "api-gateway"})
	})

	auth := middleware.AuthMiddleware()

	// Account routes
	router.POST("/api/accounts", auth, proxyTo(accountServiceURL, logger))
	router.GET("/api/accounts/:accountNumber", auth, proxyTo(accountServiceURL, logger))
	router.PUT("/api/accounts/:accountNumber/balance", auth, proxyTo(accountServiceURL, logger))
	router.PUT("/api/accounts/:accountNumber/status", auth, proxyTo(accountServiceURL, logger))
	router.GET("/api/accounts/:accountNumber/transactions", auth, proxyTo(transactionServiceURL, logger))

	// Transaction routes
	router.POST("/api/transactions/deposit", auth, proxyTo(transactionServiceURL, logger))
	router.POST("/api/transactions/withdraw", auth, proxyTo(transactionServiceURL, logger))
	router.POST("/api/transactions/transfer", auth, proxyTo(transactionServiceURL, logger))
	router.GET("/api/transactions/:transactionId", auth, proxyTo(transactionServiceURL, logger))

	// Notification liveness stays open for probes
	router.GET("/api/notifications/ping", proxyTo(notificationServiceURL, logger))
	router.GET("/api/notifications/account/:accountNumber", auth, proxyTo(notificationServiceURL, logger))

	port := getEnv("PORT", "8088")
	logger.Info("api gateway starting", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func proxyTo(serviceURL string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetURL := serviceURL + c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, bytes.NewReader(bodyBytes))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create request"})
			return
		}

		for key, values := range c.Request.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}

		// The middleware may have minted the id; make sure downstream sees it.
		if id := correlation.FromContext(c.Request.Context()); id != "" {
			req.Header.Set(correlation.Header, id)
		}
		if userID, exists := middleware.GetUserID(c); exists {
			req.Header.Set("X-User-ID", userID)
		}

		client := &http.Client{}
		resp, err := client.Do(req)
		if err != nil {
			logger.Warn("proxy request failed",
				zap.String("target", targetURL), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"message": "Service unavailable"})
			return
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to read response"})
			return
		}

		for key, values := range resp.Header {
			for _, value := range values {
				c.Header(key, value)
			}
		}

		c.Data(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return strings.TrimSuffix(value, "/")
	}
	return fallback
}
