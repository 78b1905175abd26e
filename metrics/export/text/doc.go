// Package text renders a goStats snapshot as plain lines for logs and status
// pages.
//
// Counters render as "name = value". Each probe renders as a "name (unit):"
// header followed by its four labeled lines in Count, Min, Avg, Max order.
// Output order follows the id declaration order and is stable across calls.
package text
