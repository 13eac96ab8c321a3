package maker

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TakeRequest is the body a taker posts to take an order.
type TakeRequest struct {
	SwapID string `json:"swapId"`
}

// Server exposes the order book over http.
type Server struct {
	router *gin.Engine
	book   *OrderBook
	logger *zap.Logger
}

func NewServer(book *OrderBook, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		router: gin.New(),
		book:   book,
		logger: logger.With(zap.String("service", "rest")),
	}
	s.router.Use(gin.Recovery())
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	s.router.GET("/", s.orders())
	s.router.GET("/orders/:id", s.orderByTradingPair())
	s.router.GET("/orders/:id/executionParams", s.executionParams())
	s.router.POST("/orders/:id/take", s.takeOrder())
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	service := &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	errs := make(chan error, 1)
	go func() {
		if err := service.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
		s.logger.Info("stopped")
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		return service.Shutdown(context.Background())
	}
}

func (s *Server) orders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.book.Orders())
	}
}

func (s *Server) orderByTradingPair() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := s.book.OrderByTradingPair(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no order for trading pair"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func (s *Server) executionParams() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := s.book.OrderByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusOK, s.book.ExecutionParams(order))
	}
}

func (s *Server) takeOrder() gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := s.book.OrderByID(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		req := TakeRequest{}
		if err := c.ShouldBindJSON(&req); err != nil || req.SwapID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "swapId is required"})
			return
		}

		if err := s.book.TakeOrder(req.SwapID, order); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		s.logger.Info("order taken", zap.String("order", order.ID), zap.String("swap", req.SwapID))
		c.Status(http.StatusAccepted)
	}
}
