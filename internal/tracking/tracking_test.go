package tracking

import "testing"

func TestParse(t *testing.T) {
	cases := map[string]Status{
		"processing": StatusProcessing,
		"Shipped":    StatusShipped,
		" DELIVERED": StatusDelivered,
		"cancelled":  StatusCancelled,
	}
	for in, want := range cases {
		got, ok := Parse(in)
		if !ok || got != want {
			t.Fatalf("Parse(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := Parse("refunded"); ok {
		t.Fatalf("unknown status must not parse")
	}
}

func TestProgressIndex(t *testing.T) {
	cases := map[Status]int{
		StatusProcessing: 0,
		StatusShipped:    1,
		StatusDelivered:  2,
		StatusCancelled:  -1,
		Status("bogus"):  -1,
	}
	for status, want := range cases {
		if got := ProgressIndex(status); got != want {
			t.Fatalf("ProgressIndex(%q) = %d, want %d", status, got, want)
		}
	}
}

func TestIsStageComplete(t *testing.T) {
	// A shipped order lights up stages 0 and 1, not 2.
	if !IsStageComplete(StatusShipped, 0) || !IsStageComplete(StatusShipped, 1) {
		t.Fatalf("shipped must complete stages 0 and 1")
	}
	if IsStageComplete(StatusShipped, 2) {
		t.Fatalf("shipped must not complete stage 2")
	}
	if !IsStageComplete(StatusDelivered, 2) {
		t.Fatalf("delivered must complete stage 2")
	}
	for stage := 0; stage < 3; stage++ {
		if IsStageComplete(StatusCancelled, stage) {
			t.Fatalf("cancelled must not complete stage %d", stage)
		}
	}
	if IsStageComplete(StatusDelivered, 3) || IsStageComplete(StatusDelivered, -1) {
		t.Fatalf("out-of-range stages are never complete")
	}
}

func TestCanTransitionForward(t *testing.T) {
	p := Policy{}
	allowed := [][2]Status{
		{StatusProcessing, StatusShipped},
		{StatusProcessing, StatusDelivered},
		{StatusShipped, StatusDelivered},
	}
	for _, tr := range allowed {
		if !p.CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be allowed", tr[0], tr[1])
		}
	}

	denied := [][2]Status{
		{StatusShipped, StatusProcessing},
		{StatusDelivered, StatusShipped},
		{StatusDelivered, StatusProcessing},
		{StatusProcessing, StatusProcessing},
		{StatusCancelled, StatusProcessing},
		{StatusCancelled, StatusDelivered},
	}
	for _, tr := range denied {
		if p.CanTransition(tr[0], tr[1]) {
			t.Fatalf("expected %s -> %s to be denied", tr[0], tr[1])
		}
	}
}

func TestCancelPolicy(t *testing.T) {
	strict := Policy{}
	if !strict.CanTransition(StatusProcessing, StatusCancelled) {
		t.Fatalf("processing must always be cancellable")
	}
	if strict.CanTransition(StatusShipped, StatusCancelled) {
		t.Fatalf("shipped must not be cancellable under the strict policy")
	}
	if strict.CanTransition(StatusDelivered, StatusCancelled) {
		t.Fatalf("delivered is never cancellable")
	}

	lenient := Policy{CancelFromShipped: true}
	if !lenient.CanTransition(StatusShipped, StatusCancelled) {
		t.Fatalf("shipped must be cancellable under the lenient policy")
	}
	if lenient.CanTransition(StatusDelivered, StatusCancelled) {
		t.Fatalf("delivered is never cancellable")
	}
}
