package service

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/srvalle/contract-pro/model"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const recentContracts = 3

var (
	nonAmountChars = regexp.MustCompile(`[^0-9.,-]`)

	usdPrinter = message.NewPrinter(language.AmericanEnglish)
	brlPrinter = message.NewPrinter(language.BrazilianPortuguese)
)

// RecentContract is a dashboard row
type RecentContract struct {
	ID             string       `json:"id"`
	ProjectName    string       `json:"project_name"`
	ContractNumber string       `json:"contract_number"`
	ClientName     string       `json:"client_name"`
	Status         model.Status `json:"status"`
	TotalValue     string       `json:"total_value"`
	ValueDisplay   string       `json:"value_display"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Dashboard summarises the contracts of one owner
type Dashboard struct {
	Total          int              `json:"total"`
	Pending        int              `json:"pending"`
	InProgress     int              `json:"in_progress"`
	Completed      int              `json:"completed"`
	Revenue        float64          `json:"revenue"`
	RevenueDisplay string           `json:"revenue_display"`
	Recent         []RecentContract `json:"recent"`
}

type StatsService struct {
	store ContractStore
}

func NewStatsService(store ContractStore) *StatsService {
	return &StatsService{store: store}
}

func (s *StatsService) Dashboard(ctx context.Context, ownerID string) (*Dashboard, error) {
	if ownerID == "" {
		return nil, model.ErrNotAuthorized
	}

	contracts, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return summarize(contracts), nil
}

// summarize expects contracts newest first
func summarize(contracts []*model.Contract) *Dashboard {
	d := &Dashboard{
		Total:  len(contracts),
		Recent: make([]RecentContract, 0, recentContracts),
	}

	for _, c := range contracts {
		switch c.Status {
		case model.StatusPending:
			d.Pending++
		case model.StatusInProgress:
			d.InProgress++
		case model.StatusCompleted:
			d.Completed++
		}

		amount, _ := ParseAmount(c.TotalValue)
		d.Revenue += amount

		if len(d.Recent) < recentContracts {
			d.Recent = append(d.Recent, RecentContract{
				ID:             c.ID,
				ProjectName:    c.ProjectName,
				ContractNumber: c.ContractNumber,
				ClientName:     c.ClientName,
				Status:         c.Status,
				TotalValue:     c.TotalValue,
				ValueDisplay:   FormatBRL(c.TotalValue),
				CreatedAt:      c.CreatedAt,
			})
		}
	}

	d.RevenueDisplay = FormatUSD(d.Revenue)
	return d
}

// ParseAmount reads a free-text total value written with Brazilian
// separators ("R$ 1.234,56"). Anything but digits, dots, commas and minus
// signs is dropped, every dot is treated as a thousands separator and the
// first comma becomes the decimal point. An empty value is zero. ok is
// false when the remainder is not a number, in which case the amount is 0.
func ParseAmount(s string) (amount float64, ok bool) {
	v := nonAmountChars.ReplaceAllString(s, "")
	v = strings.ReplaceAll(v, ".", "")
	v = strings.Replace(v, ",", ".", 1)
	if v == "" {
		return 0, true
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatUSD renders the revenue card value, e.g. "$ 1,234.56"
func FormatUSD(amount float64) string {
	return "$ " + usdPrinter.Sprintf("%.2f", amount)
}

// FormatBRL renders a stored total value as Brazilian reais, or "-" when
// it cannot be read as a number.
func FormatBRL(totalValue string) string {
	amount, ok := ParseAmount(totalValue)
	if !ok {
		return "-"
	}
	if amount < 0 {
		return "-R$ " + brlPrinter.Sprintf("%.2f", -amount)
	}
	return "R$ " + brlPrinter.Sprintf("%.2f", amount)
}
