package twr

import (
	"context"
	"fmt"
	"sync"

	"github.com/averauld/twr/date"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Account identifies one brokerage account known to the feed.
type Account struct {
	ID         string
	Name       string
	Currency   string
	FirstTrade date.Date
}

// Feed is the data-acquisition collaborator the engine consumes. All
// methods may block on network I/O and honor their context; the engine
// itself never blocks. broker.Client implements Feed.
type Feed interface {
	Accounts(ctx context.Context) ([]Account, error)
	EquityHistory(ctx context.Context, accountID string, r date.Range) (EquitySeries, error)
	Activities(ctx context.Context, accountID string, r date.Range) ([]Activity, error)
	Balance(ctx context.Context, accountID string) (float64, error)
}

// ComputeOptions control one performance computation.
type ComputeOptions struct {
	Window date.Range // visible window; the series is clamped and rebased to it
	Live   bool       // extend the series with a same-day live estimate
	Today  date.Date  // "today" for the live extension; zero means date.Today()
}

func (o ComputeOptions) today() date.Date {
	if o.Today.IsZero() {
		return date.Today()
	}
	return o.Today
}

// Computer runs TWR computations against a Feed. It holds no mutable
// state: each call fetches fresh inputs, computes, and returns a series
// owned by the caller.
type Computer struct {
	feed Feed
	log  *logrus.Logger
}

// NewComputer creates a Computer. A nil logger falls back to the standard one.
func NewComputer(feed Feed, log *logrus.Logger) *Computer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Computer{feed: feed, log: log}
}

// Accounts returns the feed's account set.
func (c *Computer) Accounts(ctx context.Context) ([]Account, error) {
	accounts, err := c.feed.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("account list unavailable: %w", err)
	}
	return accounts, nil
}

// accountData is the joined result of one account's required fetches.
type accountData struct {
	account  Account
	equities EquitySeries
	flows    *FlowLedger
	balance  float64
}

// fetchAccount runs the fork-join fetch for one account: equity history
// and activities always, the live balance when requested. Either every
// required fetch succeeds or the whole computation for that account fails
// atomically; the engine never computes from partial inputs.
func (c *Computer) fetchAccount(ctx context.Context, account Account, opts ComputeOptions) (accountData, error) {
	data := accountData{account: account}

	// Fetch the full history behind the visible window so the rebased
	// series has a prior-day basis at the window start.
	fetchRange := date.Range{To: opts.Window.To}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		equities, err := c.feed.EquityHistory(ctx, account.ID, fetchRange)
		if err != nil {
			return fmt.Errorf("equity history for %s: %w", account.ID, err)
		}
		data.equities = equities.Normalize()
		return nil
	})
	g.Go(func() error {
		activities, err := c.feed.Activities(ctx, account.ID, fetchRange)
		if err != nil {
			return fmt.Errorf("activities for %s: %w", account.ID, err)
		}
		data.flows = AggregateCashFlows(activities)
		return nil
	})
	if opts.Live {
		g.Go(func() error {
			balance, err := c.feed.Balance(ctx, account.ID)
			if err != nil {
				return fmt.Errorf("live balance for %s: %w", account.ID, err)
			}
			data.balance = balance
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return accountData{}, err
	}
	return data, nil
}

// AccountPerformance computes the TWR series of a single account over the
// requested window.
func (c *Computer) AccountPerformance(ctx context.Context, account Account, opts ComputeOptions) (*PerformanceReport, error) {
	data, err := c.fetchAccount(ctx, account, opts)
	if err != nil {
		c.log.WithError(err).WithField("account", account.ID).Warn("performance computation unavailable")
		return nil, fmt.Errorf("performance for account %s unavailable: %w", account.ID, err)
	}

	points := BuildSeries(data.equities, data.flows)
	if opts.Live {
		if last, ok := data.equities.Last(); ok {
			points = ExtendWithToday(points, last.Date, last.Equity, data.balance, data.flows, opts.today())
		}
	}
	points = ClampAndRebase(points, opts.Window)

	return &PerformanceReport{
		Account:  account.Name,
		Currency: account.Currency,
		Window:   opts.Window,
		Points:   points,
		Live:     opts.Live,
	}, nil
}

// TotalPerformance computes the synthetic "Total Accounts" series over the
// requested window. Fetches fan out concurrently, one per account, and
// join before the engine runs. The aggregate is fail-closed: if any
// constituent account's fetch fails, the whole aggregate is unavailable
// rather than silently under-counted.
func (c *Computer) TotalPerformance(ctx context.Context, accounts []Account, opts ComputeOptions) (*PerformanceReport, error) {
	if len(accounts) == 0 {
		return &PerformanceReport{Account: TotalAccountsName, Window: opts.Window, Live: opts.Live}, nil
	}

	var mu sync.Mutex
	data := make([]accountData, 0, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	for _, account := range accounts {
		g.Go(func() error {
			d, err := c.fetchAccount(gctx, account, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			data = append(data, d)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		c.log.WithError(err).Warn("aggregate computation unavailable")
		return nil, fmt.Errorf("aggregate performance unavailable: %w", err)
	}

	inputs := make([]AccountInput, 0, len(data))
	var balance float64
	for _, d := range data {
		inputs = append(inputs, AccountInput{
			AccountID:  d.account.ID,
			FirstTrade: d.account.FirstTrade,
			Equities:   d.equities,
			Flows:      d.flows,
		})
		balance += d.balance
	}

	series, flows := AggregateAccounts(inputs)
	points := BuildSeries(series, flows)
	if opts.Live {
		if last, ok := series.Last(); ok {
			points = ExtendWithToday(points, last.Date, last.Equity, balance, flows, opts.today())
		}
	}
	points = ClampAndRebase(points, opts.Window)

	currency := accounts[0].Currency
	return &PerformanceReport{
		Account:  TotalAccountsName,
		Currency: currency,
		Window:   opts.Window,
		Points:   points,
		Live:     opts.Live,
	}, nil
}
