package instrumentation

import (
	"context"
	"errors"
	"testing"
)

func TestStartSpans(t *testing.T) {
	ctx := context.Background()

	ctx1, span := StartSpan(ctx, "aggregate.fetch_all", AccountAttr("work"))
	if ctx1 == nil || span == nil {
		t.Fatal("expected context and span")
	}
	SetSpanSuccess(span)
	span.End()

	_, toolSpan := StartToolSpan(ctx, "calendar_agenda")
	SetSpanError(toolSpan, errors.New("boom"))
	SetSpanError(toolSpan, nil)
	toolSpan.End()

	_, apiSpan := StartGoogleAPISpan(ctx, ServiceCalendar, "events_list", AccountAttr("home"))
	apiSpan.End()
}

func TestGetTraceID_NoSpan(t *testing.T) {
	if id := GetTraceID(context.Background()); id != "" {
		t.Errorf("expected empty trace id, got %q", id)
	}
}
