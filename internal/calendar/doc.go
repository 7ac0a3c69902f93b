// Package calendar is the per-account side of mcal: the normalized event and
// calendar model, the Google Calendar v3 backend, calendar eligibility
// filtering and time zone resolution.
//
// A Client is bound to one account and one target zone. Every Event it
// returns has Start and End in that zone; all-day events start at local
// midnight and end at the following (exclusive) midnight.
//
//	client, err := calendar.NewClientForAccountWithProvider(ctx, "work", provider, loc, nil)
//	if err != nil {
//	    return err
//	}
//	events, err := client.ListEvents(ctx, "primary", calendar.NewWindow(time.Now(), 48*time.Hour), "")
package calendar
