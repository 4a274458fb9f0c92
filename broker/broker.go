// Package broker implements the HTTP client for the brokerage gateway:
// account listing, daily equity history, the account activity feed, and
// the live total-equity balance. It is the data-acquisition collaborator
// of the twr engine and satisfies twr.Feed.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/averauld/twr"
	"github.com/averauld/twr/date"
	"github.com/sirupsen/logrus"
)

// Client talks to the brokerage gateway. Historical endpoints (equity
// history, activities, accounts) go through a daily-expiring disk cache;
// the live balance endpoint always hits the network.
type Client struct {
	baseURL string
	token   string
	live    *http.Client
	cached  *http.Client
	log     *logrus.Entry
}

var _ twr.Feed = (*Client)(nil)

// New creates a gateway client. token is sent as a bearer token on every
// request.
func New(baseURL, token string) *Client {
	live := &http.Client{Timeout: 30 * time.Second}
	cached := &http.Client{
		Timeout:   30 * time.Second,
		Transport: &dayCache{base: http.DefaultTransport},
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		live:    live,
		cached:  cached,
		log:     logrus.WithField("component", "broker"),
	}
}

// get performs an authenticated GET and unmarshals the JSON response into out.
func (c *Client) get(ctx context.Context, client *http.Client, path string, query url.Values, out any) error {
	addr := c.baseURL + path
	if len(query) > 0 {
		addr += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fmt.Errorf("create request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", path, res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// rangeQuery encodes an inclusive day window; open sides are omitted.
func rangeQuery(r date.Range) url.Values {
	q := url.Values{}
	if !r.From.IsZero() {
		q.Set("start", r.From.String())
	}
	if !r.To.IsZero() {
		q.Set("end", r.To.String())
	}
	return q
}

// Accounts returns the account set with per-account first-trade dates.
func (c *Client) Accounts(ctx context.Context) ([]twr.Account, error) {
	var dto accountsResponse
	if err := c.get(ctx, c.cached, "/v1/accounts", nil, &dto); err != nil {
		return nil, err
	}

	accounts := make([]twr.Account, 0, len(dto.Accounts))
	for _, a := range dto.Accounts {
		account := twr.Account{ID: a.ID, Name: a.Name, Currency: a.Currency}
		if a.FirstTradeDate != "" {
			first, err := date.Parse(a.FirstTradeDate)
			if err != nil {
				c.log.WithError(err).WithField("account", a.ID).Warn("unparseable first trade date")
			} else {
				account.FirstTrade = first
			}
		}
		if account.Name == "" {
			account.Name = account.ID
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// EquityHistory returns the account's daily equity snapshots over the
// window, bucketed to market-calendar days and normalized.
func (c *Client) EquityHistory(ctx context.Context, accountID string, r date.Range) (twr.EquitySeries, error) {
	q := rangeQuery(r)
	q.Set("granularity", "daily")

	var dto historyResponse
	path := fmt.Sprintf("/v1/accounts/%s/equity-history", url.PathEscape(accountID))
	if err := c.get(ctx, c.cached, path, q, &dto); err != nil {
		return nil, err
	}

	series := make(twr.EquitySeries, 0, len(dto.Points))
	for _, p := range dto.Points {
		series = append(series, twr.EquitySnapshot{
			Date:      date.FromUnix(p.Timestamp),
			Equity:    p.Equity,
			PnL:       p.PnL,
			PnLPct:    p.PnLPct,
			BaseValue: p.BaseValue,
		})
	}
	c.log.WithFields(logrus.Fields{"account": accountID, "points": len(series)}).Debug("fetched equity history")
	return series.Normalize(), nil
}

// Activities returns the account's activity records over the window,
// consuming every page of the feed.
func (c *Client) Activities(ctx context.Context, accountID string, r date.Range) ([]twr.Activity, error) {
	path := fmt.Sprintf("/v1/accounts/%s/activities", url.PathEscape(accountID))

	var all []twr.Activity
	page := 1
	for {
		q := rangeQuery(r)
		q.Set("page", fmt.Sprint(page))

		var dto activitiesResponse
		if err := c.get(ctx, c.cached, path, q, &dto); err != nil {
			return nil, err
		}
		for _, a := range dto.Activities {
			all = append(all, twr.Activity{Date: a.Date, Type: a.ActivityType, NetAmount: a.NetAmount})
		}
		if dto.NextPage <= page {
			break
		}
		page = dto.NextPage
	}
	c.log.WithFields(logrus.Fields{"account": accountID, "activities": len(all)}).Debug("fetched activities")
	return all, nil
}

// Balance returns the account's current total equity. The payload of this
// endpoint is loosely typed and varies across gateway versions, so the
// value is extracted by path rather than with a rigid struct.
func (c *Client) Balance(ctx context.Context, accountID string) (float64, error) {
	path := fmt.Sprintf("/v1/accounts/%s/balances", url.PathEscape(accountID))

	var jobj any
	if err := c.get(ctx, c.live, path, nil, &jobj); err != nil {
		return 0, err
	}
	balance, err := extractTotalEquity(jobj)
	if err != nil {
		return 0, fmt.Errorf("balance for %s: %w", accountID, err)
	}
	return balance, nil
}
