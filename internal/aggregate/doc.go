// Package aggregate merges the calendars of several accounts into one
// time-ordered event list.
//
// Accounts are fetched in parallel with a bounded pool. Each account's
// outcome is kept in its own result slot; once every task has finished the
// slots are concatenated in account order and sorted. An account that fails
// contributes whatever it fetched before the failure plus one error event
// (calendar.Event.IsError), so a single broken account never hides the rest.
package aggregate
