package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/financialtrack/backend/src/store"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

// MonthlySummary aggregates one month of a user's transactions.
type MonthlySummary struct {
	Month      string             `json:"month"`
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Net        float64            `json:"net"`
	Categories map[string]float64 `json:"categories"`
}

// ReportService computes dashboard summaries, cached per (user, month) and
// invalidated on every transaction mutation.
type ReportService struct {
	txs   store.TransactionStore
	cache *cache.Cache
}

func NewReportService(txs store.TransactionStore, reportCache *cache.Cache) *ReportService {
	return &ReportService{txs: txs, cache: reportCache}
}

func summaryCacheKey(userID int64, month string) string {
	return fmt.Sprintf("summary:%d:%s", userID, month)
}

// GetMonthlySummary returns income/expense totals and the expense category
// breakdown for a month ("2006-01").
func (s *ReportService) GetMonthlySummary(ctx context.Context, userID int64, month string) (*MonthlySummary, error) {
	cacheKey := summaryCacheKey(userID, month)
	if cached, found := s.cache.Get(cacheKey); found {
		if summary, ok := cached.(*MonthlySummary); ok {
			return summary, nil
		}
	}

	income, expense, err := s.txs.MonthlyTotals(ctx, userID, month)
	if err != nil {
		return nil, err
	}
	categories, err := s.txs.CategoryBreakdown(ctx, userID, month)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Month:      month,
		Income:     income,
		Expense:    expense,
		Net:        income - expense,
		Categories: categories,
	}
	s.cache.Set(cacheKey, summary, DefaultCacheExpiration)
	return summary, nil
}

// InvalidateUser drops every cached summary for the user.
func (s *ReportService) InvalidateUser(userID int64) {
	prefix := fmt.Sprintf("summary:%d:", userID)
	for key := range s.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.cache.Delete(key)
		}
	}
}
