package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BBCN-TB/butce-takip/ledger"
)

// server wires the ledger core to the persistence gateway and the cache.
type server struct {
	store  Store
	prices PriceStore
	cache  *cache
}

func newServer(store Store, prices PriceStore, c *cache) *server {
	return &server{store: store, prices: prices, cache: c}
}

func (s *server) routes(r *gin.Engine) {
	r.GET("/health", s.healthCheck)
	r.GET("/api/transactions", s.getTransactions)
	r.POST("/api/transactions", s.addTransaction)
	r.DELETE("/api/transactions/:id", s.deleteTransaction)
	r.GET("/api/summary", s.getSummary)
	r.GET("/api/portfolio", s.getPortfolio)
	r.GET("/api/prices", s.getPrices)
	r.PUT("/api/prices", s.putPrices)
	r.GET("/api/categories", s.getCategories)
}

// respondError maps the error taxonomy onto status codes: validation
// failures re-prompt the user with 400, backend failures abort with 502,
// anything else is a 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidQuantity),
		errors.Is(err, ledger.ErrInvalidCategory),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrInvalidDate),
		errors.Is(err, ledger.ErrInvalidInstallments):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrPersistenceUnavailable):
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("persistence failure")
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *server) healthCheck(c *gin.Context) {
	if _, err := s.store.ReadAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "butce-takip",
	})
}

// periodFromQuery parses the optional year/month filter. Absent or "all"
// values widen the filter.
func periodFromQuery(c *gin.Context) (ledger.PeriodFilter, error) {
	var f ledger.PeriodFilter
	if y := c.Query("year"); y != "" && y != "all" {
		year, err := strconv.Atoi(y)
		if err != nil {
			return f, errors.New("invalid year filter")
		}
		f.Year = year
	}
	if m := c.Query("month"); m != "" && m != "all" {
		month, err := strconv.Atoi(m)
		if err != nil || month < 1 || month > 12 {
			return f, errors.New("invalid month filter, want 1-12")
		}
		f.Month = time.Month(month)
	}
	return f, nil
}

// readAll loads the full row snapshot, through the cache when possible.
func (s *server) readAll(c *gin.Context) ([]ledger.Transaction, error) {
	ctx := c.Request.Context()

	var txs []ledger.Transaction
	if s.cache.get(ctx, cacheKeyTransactions, &txs) {
		return txs, nil
	}
	txs, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.set(ctx, cacheKeyTransactions, txs)
	return txs, nil
}

func (s *server) getTransactions(c *gin.Context) {
	filter, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txs, err := s.readAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTransactionJSONList(ledger.Filter(txs, filter)))
}

func (s *server) addTransaction(c *gin.Context) {
	var entry ledger.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := ledger.Build(entry)
	if err != nil {
		respondError(c, err)
		return
	}

	// One batch ID for the whole entry; a single row is just a batch of one.
	if err := s.store.AppendBatch(c.Request.Context(), uuid.New(), rows); err != nil {
		respondError(c, err)
		return
	}
	s.cache.invalidate(c.Request.Context(), cacheKeyTransactions)

	c.JSON(http.StatusCreated, gin.H{
		"created":      len(rows),
		"transactions": toTransactionJSONList(rows),
	})
}

func (s *server) deleteTransaction(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}

	ids := []int64{id}
	if c.Query("group") == "true" {
		// Resolve the whole installment group from the stored snapshot.
		txs, err := s.store.ReadAll(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		if siblings := ledger.Siblings(txs, id); len(siblings) > 0 {
			ids = siblings
		}
	}

	if err := s.store.DeleteByIDs(c.Request.Context(), ids); err != nil {
		respondError(c, err)
		return
	}
	s.cache.invalidate(c.Request.Context(), cacheKeyTransactions)

	c.JSON(http.StatusOK, gin.H{"deleted": len(ids)})
}

func (s *server) getSummary(c *gin.Context) {
	filter, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txs, err := s.readAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummaryJSON(ledger.Aggregate(txs, filter)))
}

func (s *server) getPortfolio(c *gin.Context) {
	filter, err := periodFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txs, err := s.readAll(c)
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := s.prices.PriceSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	rows, sum := ledger.ValuePortfolio(ledger.Filter(txs, filter), snap)
	c.JSON(http.StatusOK, toPortfolioJSON(rows, sum))
}

func (s *server) getPrices(c *gin.Context) {
	ctx := c.Request.Context()

	var snap ledger.PriceSnapshot
	if !s.cache.get(ctx, cacheKeyPrices, &snap) {
		var err error
		if snap, err = s.prices.PriceSnapshot(ctx); err != nil {
			respondError(c, err)
			return
		}
		s.cache.set(ctx, cacheKeyPrices, snap)
	}
	c.JSON(http.StatusOK, gin.H{
		"gram_gold":   snap.GramGold.StringFixed(2),
		"gram_silver": snap.GramSilver.StringFixed(2),
	})
}

func (s *server) putPrices(c *gin.Context) {
	var req pricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gold, err := ledger.ParseAmount(req.GramGold)
	if err != nil {
		respondError(c, err)
		return
	}
	silver, err := ledger.ParseAmount(req.GramSilver)
	if err != nil {
		respondError(c, err)
		return
	}
	if gold.IsNegative() || silver.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prices cannot be negative"})
		return
	}

	snap := ledger.PriceSnapshot{GramGold: gold, GramSilver: silver}
	if err := s.prices.SetPriceSnapshot(c.Request.Context(), snap); err != nil {
		respondError(c, err)
		return
	}
	s.cache.invalidate(c.Request.Context(), cacheKeyPrices)

	c.JSON(http.StatusOK, gin.H{
		"gram_gold":   snap.GramGold.StringFixed(2),
		"gram_silver": snap.GramSilver.StringFixed(2),
	})
}

func (s *server) getCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		string(ledger.Income):     ledger.Categories(ledger.Income),
		string(ledger.Expense):    ledger.Categories(ledger.Expense),
		string(ledger.Investment): ledger.Categories(ledger.Investment),
	})
}
