// Package journal persists signal traffic to Postgres for audit and
// replay: every outbound signal and every inbound status or error
// envelope becomes a row in signal_events, written in batches.
package journal
