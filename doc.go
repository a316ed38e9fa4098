// Package pnl turns the transaction history of a personal portfolio into
// accounting numbers and a return rate.
//
// The core functionalities include:
//   - Cost Basis: a FIFO lot engine (CostBasisCalculator) that books buys,
//     sells, employer-stock vesting with sell-to-cover, dividend
//     reinvestment and pure cash income, and reports position, cost basis,
//     and realized and unrealized profit.
//   - Cash Flows: a builder that normalizes an asset history into a dated
//     series of signed amounts in the reporting currency, ending with the
//     current market value.
//   - Returns: a solver for the annualized money-weighted return (XIRR) of
//     any cash-flow series, with fallbacks that never fabricate a number.
//
// Amounts in foreign currencies are converted through a Converter, usually a
// RateTable loaded from a JSONL file. The package neither fetches market
// data nor persists anything.
package pnl
