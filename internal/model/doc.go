// Package model defines the shared domain types synchronized from the
// server: portfolio, prices, bots, copy-trade targets and signals,
// arbitrage opportunities, sniper tokens and positions, intel, yield,
// liquidity, staking, and trade history.
//
// Types here are plain data with no behavior. All times are local receive
// times unless the server supplies one.
package model
