package trace

import (
	"sync"
	"testing"
)

func TestTrace_Record_AppendsRecord(t *testing.T) {
	// GIVEN an empty trace
	tr := New()

	// WHEN a decision is recorded
	tr.Record(BestRecord{Signal: "schan", Point: "100", Chosen: "L1_SingleMu22", Count: 40, Denom: 100, Considered: 3})

	// THEN the trace contains one record with correct data
	if len(tr.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(tr.Records))
	}
	if tr.Records[0].Chosen != "L1_SingleMu22" {
		t.Errorf("expected L1_SingleMu22, got %s", tr.Records[0].Chosen)
	}
}

func TestTrace_MultipleRecords_PreservesOrder(t *testing.T) {
	tr := New()
	tr.Record(BestRecord{Point: "100", Chosen: "A"})
	tr.Record(BestRecord{Point: "250", Chosen: "B"})

	got := tr.Snapshot()
	if len(got) != 2 || got[0].Point != "100" || got[1].Point != "250" {
		t.Errorf("record order not preserved: %+v", got)
	}
}

func TestTrace_ConcurrentRecord_NoLoss(t *testing.T) {
	// GIVEN many goroutines recording at once
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Record(BestRecord{Chosen: "A"})
		}()
	}
	wg.Wait()

	// THEN every record is kept
	if n := len(tr.Snapshot()); n != 50 {
		t.Errorf("expected 50 records, got %d", n)
	}
}

func TestBestRecord_Efficiency_ZeroDenom(t *testing.T) {
	if eff := (BestRecord{Count: 3}).Efficiency(); eff != 0 {
		t.Errorf("expected 0 for zero denom, got %f", eff)
	}
	if eff := (BestRecord{Count: 3, Denom: 4}).Efficiency(); eff != 0.75 {
		t.Errorf("expected 0.75, got %f", eff)
	}
}
