// Package cmd implements the command-line interface for mcal.
//
// This package provides the following commands:
//   - account add|remove|list: Manage the authorized Google accounts
//   - list: Show the calendars of every account
//   - agenda: Show the merged agenda (the default command)
//   - week, month: Show events in a week or month grid
//   - search: Search events of all accounts
//   - quick, add, delete: Write to a single account
//   - export: Write the merged agenda as iCalendar
//   - serve: Start the MCP server to provide tools for AI assistants
//   - version: Display version information
package cmd
