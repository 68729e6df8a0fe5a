package views

import "finance/internal/models"

type ApologyData struct {
	Status  int
	Message string
}

type SellData struct {
	Holdings []models.Holding
}

type CashData struct {
	CashMinor int64
}

type HistoryData struct {
	Transactions []models.Transaction
	Page         int
	Limit        int
	HasMore      bool
}

func (h HistoryData) PrevPage() int { return h.Page - 1 }

func (h HistoryData) NextPage() int { return h.Page + 1 }
