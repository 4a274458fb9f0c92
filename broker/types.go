package broker

import (
	"fmt"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
)

type accountsResponse struct {
	Accounts []accountDTO `json:"accounts"`
}

type accountDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	FirstTradeDate string `json:"firstTradeDate"`
}

type historyResponse struct {
	Points []historyPointDTO `json:"points"`
}

type historyPointDTO struct {
	Timestamp int64   `json:"timestamp"`
	Equity    float64 `json:"equity"`
	PnL       float64 `json:"pnl"`
	PnLPct    float64 `json:"pnlPct"`
	BaseValue float64 `json:"baseValue"`
}

type activitiesResponse struct {
	Activities []activityDTO `json:"activities"`
	NextPage   int           `json:"nextPage"`
}

type activityDTO struct {
	Date         string `json:"date"`
	ActivityType string `json:"activityType"`
	NetAmount    string `json:"netAmount"`
}

// totalEquityPaths are tried in order against the balances payload.
// Gateways report total equity under different keys depending on version.
var totalEquityPaths = []string{
	"$.balances.totalEquity",
	"$.totalEquity",
	"$.balances.total.equity",
}

func extractTotalEquity(jobj any) (float64, error) {
	for _, path := range totalEquityPaths {
		v, err := jsonpath.Get(path, jobj)
		if err != nil {
			continue
		}
		switch x := v.(type) {
		case float64:
			return x, nil
		case string:
			f, err := strconv.ParseFloat(x, 64)
			if err == nil {
				return f, nil
			}
		}
	}
	return 0, fmt.Errorf("no total equity in balances payload")
}
