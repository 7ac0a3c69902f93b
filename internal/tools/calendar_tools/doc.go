// Package calendar_tools exposes the merged multi-account calendar as MCP
// tools.
//
// Read tools (always registered):
//   - calendar_list_calendars: calendars of every account, any access role
//   - calendar_agenda: merged, time-ordered events in a window
//   - calendar_search: merged events matching a text query
//
// Write tools (registered only when the server runs with --yolo):
//   - calendar_quick_add, calendar_create_event, calendar_delete_event
//
// Read tools span every configured account unless "accounts" narrows them.
// A failing account shows up as an error entry in the result instead of
// failing the call. Write tools act on one account, the given one or the
// configured default.
package calendar_tools
