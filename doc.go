// Package twr computes time-weighted return (TWR) series for brokerage
// accounts.
//
// The engine turns a sequence of daily account-equity snapshots plus a set
// of external cash deposits and withdrawals into a compounded,
// cash-flow-neutral performance series. Deposits and withdrawals move the
// account value without reflecting investment performance; the TWR
// calculation removes that step-change so that the series measures only
// market-driven growth.
//
// The package is a pure computation library: every entry point is a
// deterministic function of its explicit inputs, produces a fresh series
// owned by the caller, and performs no I/O. Data acquisition lives in the
// broker subpackage; orchestration of concurrent fetches (fork-join with
// stale-result dropping) is provided by Computer and Refresher.
package twr
