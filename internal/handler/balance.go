package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ekinyalgin/consolevite-sub000/internal/middleware"
	"github.com/ekinyalgin/consolevite-sub000/internal/models"
	"github.com/ekinyalgin/consolevite-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// errNotDecrementable marks a decrease-installment call against an
// entry that is not an open expense installment.
var errNotDecrementable = errors.New("entry has no installments to decrease")

// BalanceHandler serves the income/expense ledger.
type BalanceHandler struct {
	DB *gorm.DB
}

func NewBalanceHandler(db *gorm.DB) *BalanceHandler {
	return &BalanceHandler{DB: db}
}

// ---------- request/response types ----------

type balanceReq struct {
	Kind              string          `json:"kind" binding:"required,oneof=income expense"`
	Category          string          `json:"category" binding:"required,max=64"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"` // YYYY-MM-DD, defaults to today
	Note              string          `json:"note" binding:"max=255"`
	TotalInstallments int             `json:"totalInstallments"`
	IsRecurring       bool            `json:"isRecurring"`
}

type balanceResp struct {
	ID                uint            `json:"id"`
	Kind              string          `json:"kind"`
	Category          string          `json:"category"`
	Amount            decimal.Decimal `json:"amount"`
	Date              string          `json:"date"`
	Note              string          `json:"note"`
	TotalInstallments int             `json:"totalInstallments"`
	IsCompleted       bool            `json:"isCompleted"`
	IsRecurring       bool            `json:"isRecurring"`
	AddedByAdmin      bool            `json:"addedByAdmin"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func toBalanceResp(e *models.BalanceEntry) balanceResp {
	return balanceResp{
		ID:                e.ID,
		Kind:              e.Kind,
		Category:          e.Category,
		Amount:            e.Amount,
		Date:              e.Date.Format("2006-01-02"),
		Note:              e.Note,
		TotalInstallments: e.TotalInstallments,
		IsCompleted:       e.IsCompleted,
		IsRecurring:       e.IsRecurring,
		AddedByAdmin:      e.AddedByAdmin,
		CreatedAt:         e.CreatedAt,
	}
}

// ---------- ledger arithmetic ----------

// addCalendarMonth advances t by one calendar month, keeping the
// day-of-month and clamping to the last day when the target month is
// shorter (Jan 31 -> Feb 29/28).
func addCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// installmentShare is one installment's worth of an expense: the full
// amount divided by the installment count, rounded to 2 digits.
func installmentShare(amount decimal.Decimal, installments int) decimal.Decimal {
	return amount.DivRound(decimal.NewFromInt(int64(installments)), 2)
}

// getOrCreateTotal fetches the user's running-total row, creating it
// lazily on the first balance mutation.
func getOrCreateTotal(tx *gorm.DB, userID uint) (*models.UserTotalBalance, error) {
	var tb models.UserTotalBalance
	err := tx.Where("user_id = ?", userID).First(&tb).Error
	if err == gorm.ErrRecordNotFound {
		tb = models.UserTotalBalance{UserID: userID, TotalIncome: decimal.Zero}
		if err := tx.Create(&tb).Error; err != nil {
			return nil, err
		}
		return &tb, nil
	}
	if err != nil {
		return nil, err
	}
	return &tb, nil
}

// applyTotalDelta adds delta (signed) to the user's running total.
func applyTotalDelta(tx *gorm.DB, userID uint, delta decimal.Decimal) error {
	tb, err := getOrCreateTotal(tx, userID)
	if err != nil {
		return err
	}
	tb.TotalIncome = tb.TotalIncome.Add(delta)
	return tx.Save(tb).Error
}

// ---------- create ----------

func (h *BalanceHandler) CreateEntry(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var req balanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	if err := util.ValidateCategory(req.Category); err != nil {
		util.Error(c, http.StatusBadRequest, "category is required")
		return
	}

	date := time.Now()
	if req.Date != "" {
		d, err := util.ValidateDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}

	installments := req.TotalInstallments
	if installments < 1 {
		installments = 1
	}
	// income never carries installments
	if req.Kind == models.KindIncome {
		installments = 1
		req.IsRecurring = false
	}

	entry := models.BalanceEntry{
		UserID:            user.ID,
		Kind:              req.Kind,
		Category:          req.Category,
		Amount:            req.Amount,
		Date:              date,
		Note:              req.Note,
		TotalInstallments: installments,
		IsRecurring:       req.IsRecurring,
		AddedByAdmin:      user.IsAdmin(),
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
		delta := entry.Amount
		if entry.Kind == models.KindExpense {
			delta = delta.Neg()
		}
		return applyTotalDelta(tx, user.ID, delta)
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save entry")
		return
	}

	util.JSON(c, http.StatusCreated, toBalanceResp(&entry))
}

// ---------- list grouped by month ----------

type monthGroup struct {
	Date     string        `json:"date"` // YYYY-MM
	Balances []balanceResp `json:"balances"`
}

func (h *BalanceHandler) ListEntries(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	var entries []models.BalanceEntry
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("date ASC, id ASC").
		Find(&entries).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to load entries")
		return
	}

	totalIncome := decimal.Zero
	var tb models.UserTotalBalance
	if err := h.DB.Where("user_id = ?", user.ID).First(&tb).Error; err == nil {
		totalIncome = tb.TotalIncome
	}

	groups := make(map[string]*monthGroup)
	for i := range entries {
		key := entries[i].Date.Format("2006-01")
		g, ok := groups[key]
		if !ok {
			g = &monthGroup{Date: key}
			groups[key] = g
		}
		g.Balances = append(g.Balances, toBalanceResp(&entries[i]))
	}

	grouped := make([]monthGroup, 0, len(groups))
	for _, g := range groups {
		grouped = append(grouped, *g)
	}
	sort.Slice(grouped, func(i, j int) bool { return grouped[i].Date < grouped[j].Date })

	util.JSON(c, http.StatusOK, gin.H{
		"totalIncome":     totalIncome,
		"groupedBalances": grouped,
	})
}

// ---------- update ----------

// UpdateEntry replaces the entry's fields. The running total is left
// untouched on purpose; see DESIGN.md.
func (h *BalanceHandler) UpdateEntry(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var req balanceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.Amount); err != nil {
		util.Error(c, http.StatusBadRequest, "amount must be a positive number")
		return
	}
	if err := util.ValidateCategory(req.Category); err != nil {
		util.Error(c, http.StatusBadRequest, "category is required")
		return
	}

	var entry models.BalanceEntry
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, "entry not found")
		} else {
			util.Error(c, http.StatusInternalServerError, "failed to load entry")
		}
		return
	}

	entry.Kind = req.Kind
	entry.Category = req.Category
	entry.Amount = req.Amount
	entry.Note = req.Note
	entry.IsRecurring = req.IsRecurring
	if req.Date != "" {
		d, err := util.ValidateDate(req.Date)
		if err != nil {
			util.Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		entry.Date = d
	}
	if req.TotalInstallments >= 1 {
		entry.TotalInstallments = req.TotalInstallments
	}
	if entry.Kind == models.KindIncome {
		entry.TotalInstallments = 1
		entry.IsRecurring = false
	}

	if err := h.DB.Save(&entry).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, "failed to save entry")
		return
	}

	util.JSON(c, http.StatusOK, toBalanceResp(&entry))
}

// ---------- delete ----------

// DeleteEntry removes the row. As with update, the running total is not
// re-adjusted; see DESIGN.md.
func (h *BalanceHandler) DeleteEntry(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	res := h.DB.Where("id = ? AND user_id = ?", id, user.ID).Delete(&models.BalanceEntry{})
	if res.Error != nil {
		util.Error(c, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	if res.RowsAffected == 0 {
		util.Error(c, http.StatusNotFound, "entry not found")
		return
	}

	c.Status(http.StatusNoContent)
}

// ---------- decrease installment ----------

// DecreaseInstallment applies one installment cycle to an expense
// entry: decrement the count, advance the date one calendar month,
// complete (or reset, for recurring entries) at zero, and subtract one
// installment's worth from the running total. Entry and total change
// atomically.
func (h *BalanceHandler) DecreaseInstallment(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, "not logged in")
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		util.Error(c, http.StatusBadRequest, "invalid id")
		return
	}

	var entry models.BalanceEntry
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", id, user.ID).First(&entry).Error; err != nil {
			return err
		}
		if entry.Kind != models.KindExpense || entry.TotalInstallments <= 0 {
			return errNotDecrementable
		}

		before := entry.TotalInstallments
		entry.TotalInstallments--
		entry.Date = addCalendarMonth(entry.Date)
		if entry.TotalInstallments == 0 {
			if entry.IsRecurring {
				// recurring entries never complete; the reset row
				// represents next month's charge
				entry.TotalInstallments = 1
			} else {
				entry.IsCompleted = true
			}
		}

		share := entry.Amount
		if !entry.IsRecurring {
			share = installmentShare(entry.Amount, before)
		}

		if err := tx.Save(&entry).Error; err != nil {
			return err
		}
		return applyTotalDelta(tx, user.ID, share.Neg())
	})

	switch {
	case err == gorm.ErrRecordNotFound:
		util.Error(c, http.StatusNotFound, "entry not found")
	case err == errNotDecrementable:
		util.Error(c, http.StatusBadRequest, "entry has no installments to decrease")
	case err != nil:
		util.Error(c, http.StatusInternalServerError, "failed to decrease installment")
	default:
		util.JSON(c, http.StatusOK, toBalanceResp(&entry))
	}
}
