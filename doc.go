// Package posbook turns an ordered stream of portfolio transactions into
// current, multi-currency-valued positions. It is a pure, replayable
// transformation: it never fetches prices, never persists anything, and
// trusts its inputs as already validated and rate-enriched.
//
// The core functionalities include:
//   - Accumulation: replaying buys, sells, dividends, splits, cash movements,
//     FX trades and expenses into per-asset positions, dispatching each
//     transaction kind to its own strategy while guarding date ordering and
//     double-counted cash legs.
//   - Three currency views: every position carries its monetary figures in
//     the trade currency, the portfolio's base currency, and the portfolio's
//     reporting currency, always updated together from the same transaction.
//   - Cost model: average cost, cost value and realised gain maintained
//     exactly with decimal arithmetic, with a single reset-on-zero rule
//     shared by every cost-affecting kind.
//   - Valuation: a separate stage combining accumulated positions with a
//     market snapshot and an FX rate table into market value, unrealised
//     gain and total gain per view.
//   - Ledger codec: reading and writing transaction histories in a
//     human-readable, version-controllable JSONL format.
//
// This package serves as the foundational logic for the `pbk` command-line
// tool; the surrounding API, persistence and market-data services consume it
// through Ledger.Replay and Value.
package posbook
